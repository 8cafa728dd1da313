package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"quizforge/internal/activities"
	"quizforge/internal/extract"
	"quizforge/internal/models"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerQuizActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "ExtractPagesActivity", func(context.Context, activities.ExtractPagesInput) (activities.ExtractPagesOutput, error) {
		return activities.ExtractPagesOutput{}, nil
	})
	registerActivityName(env, "ClassifyPagesActivity", func(context.Context, activities.ClassifyPagesInput) (activities.ClassifyPagesOutput, error) {
		return activities.ClassifyPagesOutput{}, nil
	})
	registerActivityName(env, "ExtractDiagramsActivity", func(context.Context, activities.ExtractDiagramsInput) (activities.ExtractDiagramsOutput, error) {
		return activities.ExtractDiagramsOutput{}, nil
	})
	registerActivityName(env, "SynthesizeActivity", func(context.Context, activities.SynthesizeInput) (activities.SynthesizeOutput, error) {
		return activities.SynthesizeOutput{}, nil
	})
	registerActivityName(env, "PersistQuestionSetActivity", func(context.Context, activities.PersistQuestionSetInput) (activities.PersistQuestionSetOutput, error) {
		return activities.PersistQuestionSetOutput{}, nil
	})
	registerActivityName(env, "WriteSetArtifactActivity", func(context.Context, activities.WriteSetArtifactInput) error { return nil })
}

func intp(i int) *int { return &i }

func sampleQuestions(n int) []models.Question {
	out := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Question{
			Type:          models.TypeMultipleChoice,
			Text:          "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectIndex:  intp(0),
			ExplanationEN: "en",
			ExplanationAR: "ar",
		})
	}
	return out
}

func TestDocumentQuizWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentQuizWorkflow)
	registerQuizActivities(env)

	pages := []extract.PageRecord{
		{Index: 1, Text: "intro boilerplate", WordCount: 2},
		{Index: 2, Text: "the krebs cycle in detail", WordCount: 5, IsRelevant: true},
	}
	env.OnActivity("ExtractPagesActivity", mock.Anything, activities.ExtractPagesInput{DocumentPath: "/tmp/doc.pdf"}).
		Return(activities.ExtractPagesOutput{Pages: pages}, nil)
	env.OnActivity("ClassifyPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ClassifyPagesOutput{Pages: pages, RelevantCount: 1, SkippedPages: 1}, nil)
	env.OnActivity("SynthesizeActivity", mock.Anything, mock.Anything).
		Return(activities.SynthesizeOutput{Questions: sampleQuestions(5)}, nil)
	env.OnActivity("PersistQuestionSetActivity", mock.Anything, mock.Anything).
		Return(activities.PersistQuestionSetOutput{SetID: "set-1"}, nil)
	env.OnActivity("WriteSetArtifactActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentQuizWorkflow, DocumentQuizInput{
		SetID:        "set-1",
		DocumentPath: "/tmp/doc.pdf",
		Difficulty:   models.DifficultyMedium,
		QuestionType: models.TypeMultipleChoice,
		TargetCount:  5,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
}

func TestDocumentQuizWorkflowNoTextFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentQuizWorkflow)
	registerQuizActivities(env)

	env.OnActivity("ExtractPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractPagesOutput{}, errors.New("no extractable text found in PDF"))

	env.ExecuteWorkflow(DocumentQuizWorkflow, DocumentQuizInput{SetID: "set-1", DocumentPath: "/tmp/doc.pdf", TargetCount: 5})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestDocumentQuizWorkflowAllPagesFiltered(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentQuizWorkflow)
	registerQuizActivities(env)

	pages := []extract.PageRecord{{Index: 1, Text: "table of contents", WordCount: 3}}
	env.OnActivity("ExtractPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractPagesOutput{Pages: pages}, nil)
	env.OnActivity("ClassifyPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ClassifyPagesOutput{Pages: pages, RelevantCount: 0, SkippedPages: 1}, nil)

	env.ExecuteWorkflow(DocumentQuizWorkflow, DocumentQuizInput{SetID: "set-1", DocumentPath: "/tmp/doc.pdf", TargetCount: 5})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestDocumentQuizWorkflowDiagramFailureNonFatal(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentQuizWorkflow)
	registerQuizActivities(env)

	pages := []extract.PageRecord{{Index: 1, Text: "a long relevant first page about cells", WordCount: 60, IsRelevant: true}}
	env.OnActivity("ExtractPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractPagesOutput{Pages: pages}, nil)
	env.OnActivity("ClassifyPagesActivity", mock.Anything, mock.Anything).
		Return(activities.ClassifyPagesOutput{Pages: pages, RelevantCount: 1}, nil)
	env.OnActivity("ExtractDiagramsActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractDiagramsOutput{}, errors.New("image stream corrupt"))
	env.OnActivity("SynthesizeActivity", mock.Anything, mock.Anything).
		Return(activities.SynthesizeOutput{Questions: sampleQuestions(3)}, nil)
	env.OnActivity("PersistQuestionSetActivity", mock.Anything, mock.Anything).
		Return(activities.PersistQuestionSetOutput{SetID: "set-1"}, nil)
	env.OnActivity("WriteSetArtifactActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentQuizWorkflow, DocumentQuizInput{
		SetID:        "set-1",
		DocumentPath: "/tmp/doc.pdf",
		TargetCount:  3,
		WithDiagrams: true,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
}
