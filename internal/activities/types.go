package activities

import (
	"quizforge/internal/diagram"
	"quizforge/internal/extract"
	"quizforge/internal/models"
	"quizforge/internal/synthesis"
	"quizforge/internal/validate"
)

type ExtractPagesInput struct {
	DocumentPath string `json:"document_path"`
}

type ExtractPagesOutput struct {
	Pages     []extract.PageRecord `json:"pages"`
	FailedOCR int                  `json:"failed_ocr"`
}

type ClassifyPagesInput struct {
	Pages []extract.PageRecord `json:"pages"`
}

type ClassifyPagesOutput struct {
	Pages         []extract.PageRecord `json:"pages"`
	RelevantCount int                  `json:"relevant_count"`
	SkippedPages  int                  `json:"skipped_pages"`
}

type ExtractDiagramsInput struct {
	DocumentPath string `json:"document_path"`
	Pages        []int  `json:"pages"`
}

type ExtractDiagramsOutput struct {
	Diagrams []diagram.Candidate `json:"diagrams"`
	Skipped  int                 `json:"skipped"`
}

type SynthesizeInput struct {
	Operation    string               `json:"operation"`
	Topic        string               `json:"topic,omitempty"`
	Difficulty   models.Difficulty    `json:"difficulty"`
	QuestionType models.QuestionType  `json:"question_type"`
	TargetCount  int                  `json:"target_count"`
	Instructions string               `json:"instructions,omitempty"`
	Pages        []extract.PageRecord `json:"pages,omitempty"`
	Diagrams     []diagram.Candidate  `json:"diagrams,omitempty"`
	Existing     []string             `json:"existing,omitempty"`
}

type SynthesizeOutput struct {
	Questions    []models.Question    `json:"questions"`
	SkippedUnits []string             `json:"skipped_units,omitempty"`
	Rejected     []validate.Rejection `json:"rejected,omitempty"`
	Shortfall    int                  `json:"shortfall"`
}

type PersistQuestionSetInput struct {
	SetID         string              `json:"set_id"`
	Title         string              `json:"title"`
	SourceType    models.Mode         `json:"source_type"`
	Difficulty    models.Difficulty   `json:"difficulty"`
	QuestionType  models.QuestionType `json:"question_type"`
	CourseID      string              `json:"course_id,omitempty"`
	UserID        string              `json:"user_id,omitempty"`
	Questions     []models.Question   `json:"questions"`
	SkippedPages  int                 `json:"skipped_pages"`
	SkippedImages int                 `json:"skipped_images"`
	RejectedCount int                 `json:"rejected_count"`
}

type PersistQuestionSetOutput struct {
	SetID string `json:"set_id"`
}

type WriteSetArtifactInput struct {
	SetID   string         `json:"set_id"`
	Summary map[string]any `json:"summary"`
}

// SynthesisOutcome converts an orchestrator outcome into the activity
// wire shape.
func SynthesisOutcome(out synthesis.Outcome) SynthesizeOutput {
	return SynthesizeOutput{
		Questions:    out.Questions,
		SkippedUnits: out.SkippedUnits,
		Rejected:     out.Rejected,
		Shortfall:    out.Shortfall,
	}
}
