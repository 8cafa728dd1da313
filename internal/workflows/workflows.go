package workflows

import (
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"quizforge/internal/activities"
	"quizforge/internal/models"
)

const QueryGetQuizStatus = "GetQuizStatus"

// DocumentQuizWorkflow turns one uploaded document into a persisted
// question set. Content-level failures (nothing extractable, everything
// filtered, no valid questions) end the workflow with status "failed"
// rather than a workflow error, so the caller gets a reason instead of
// a retry loop.
func DocumentQuizWorkflow(ctx workflow.Context, input DocumentQuizInput) (string, error) {
	status := QuizBuildStatus{
		SetID:       input.SetID,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetQuizStatus, func() (QuizBuildStatus, error) {
		return status, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	status.CurrentStep = "extract_pages"
	status.Steps[status.CurrentStep] = "processing"
	var pagesOut activities.ExtractPagesOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractPagesActivity", activities.ExtractPagesInput{
		DocumentPath: input.DocumentPath,
	}).Get(ctx, &pagesOut); err != nil {
		if isContentError(err) {
			return failBuild(&status, err.Error()), nil
		}
		return "", err
	}
	status.TotalPages = len(pagesOut.Pages)
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "classify_pages"
	status.Steps[status.CurrentStep] = "processing"
	var classOut activities.ClassifyPagesOutput
	if err := workflow.ExecuteActivity(ctx, "ClassifyPagesActivity", activities.ClassifyPagesInput{
		Pages: pagesOut.Pages,
	}).Get(ctx, &classOut); err != nil {
		return "", err
	}
	status.RelevantPages = classOut.RelevantCount
	status.SkippedPages = classOut.SkippedPages
	status.Steps[status.CurrentStep] = "done"
	if classOut.RelevantCount == 0 {
		return failBuild(&status, "no eligible content for question generation"), nil
	}

	var diagrams activities.ExtractDiagramsOutput
	if input.WithDiagrams {
		status.CurrentStep = "extract_diagrams"
		status.Steps[status.CurrentStep] = "processing"
		relevant := make([]int, 0, classOut.RelevantCount)
		for _, p := range classOut.Pages {
			if p.IsRelevant {
				relevant = append(relevant, p.Index)
			}
		}
		// Diagram extraction is best-effort. A scan with no usable
		// images still produces a text-only quiz.
		if err := workflow.ExecuteActivity(ctx, "ExtractDiagramsActivity", activities.ExtractDiagramsInput{
			DocumentPath: input.DocumentPath,
			Pages:        relevant,
		}).Get(ctx, &diagrams); err != nil {
			status.Steps[status.CurrentStep] = "failed"
		} else {
			status.SkippedImages = diagrams.Skipped
			status.Steps[status.CurrentStep] = "done"
		}
	}

	status.CurrentStep = "synthesize"
	status.Steps[status.CurrentStep] = "processing"
	operation := string(models.ModePDFText)
	if len(diagrams.Diagrams) > 0 {
		operation = string(models.ModePDFImage)
	}
	var synthOut activities.SynthesizeOutput
	if err := workflow.ExecuteActivity(ctx, "SynthesizeActivity", activities.SynthesizeInput{
		Operation:    operation,
		Difficulty:   input.Difficulty,
		QuestionType: input.QuestionType,
		TargetCount:  input.TargetCount,
		Instructions: input.Instructions,
		Pages:        classOut.Pages,
		Diagrams:     diagrams.Diagrams,
	}).Get(ctx, &synthOut); err != nil {
		if isContentError(err) {
			return failBuild(&status, err.Error()), nil
		}
		return "", err
	}
	status.Questions = len(synthOut.Questions)
	status.Rejected = len(synthOut.Rejected)
	status.Shortfall = synthOut.Shortfall
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "persist"
	status.Steps[status.CurrentStep] = "processing"
	sourceType := models.ModePDFText
	if len(diagrams.Diagrams) > 0 {
		sourceType = models.ModePDFImage
	}
	if err := workflow.ExecuteActivity(ctx, "PersistQuestionSetActivity", activities.PersistQuestionSetInput{
		SetID:         input.SetID,
		Title:         input.Title,
		SourceType:    sourceType,
		Difficulty:    input.Difficulty,
		QuestionType:  input.QuestionType,
		CourseID:      input.CourseID,
		UserID:        input.UserID,
		Questions:     synthOut.Questions,
		SkippedPages:  status.SkippedPages,
		SkippedImages: status.SkippedImages,
		RejectedCount: len(synthOut.Rejected),
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	_ = workflow.ExecuteActivity(ctx, "WriteSetArtifactActivity", activities.WriteSetArtifactInput{
		SetID: input.SetID,
		Summary: map[string]any{
			"set_id":         input.SetID,
			"total_pages":    status.TotalPages,
			"relevant_pages": status.RelevantPages,
			"skipped_pages":  status.SkippedPages,
			"skipped_images": status.SkippedImages,
			"questions":      status.Questions,
			"rejected":       status.Rejected,
			"shortfall":      status.Shortfall,
			"generated_at":   workflow.Now(ctx),
		},
	}).Get(ctx, nil)

	status.CurrentStep = "done"
	status.Status = "completed"
	return status.Status, nil
}

func failBuild(status *QuizBuildStatus, reason string) string {
	status.Status = "failed"
	status.FailReason = reason
	status.Steps[status.CurrentStep] = "failed"
	return status.Status
}

func isContentError(err error) bool {
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "no extractable text") ||
		strings.Contains(e, "empty or unreadable") ||
		strings.Contains(e, "no eligible content") ||
		strings.Contains(e, "no valid questions")
}
