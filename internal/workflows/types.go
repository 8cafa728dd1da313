package workflows

import "quizforge/internal/models"

type DocumentQuizInput struct {
	SetID        string              `json:"set_id"`
	DocumentPath string              `json:"document_path"`
	Title        string              `json:"title"`
	Difficulty   models.Difficulty   `json:"difficulty"`
	QuestionType models.QuestionType `json:"question_type"`
	TargetCount  int                 `json:"target_count"`
	Instructions string              `json:"instructions,omitempty"`
	CourseID     string              `json:"course_id,omitempty"`
	UserID       string              `json:"user_id,omitempty"`
	WithDiagrams bool                `json:"with_diagrams"`
}

type QuizBuildStatus struct {
	SetID         string            `json:"set_id"`
	CurrentStep   string            `json:"current_step"`
	Status        string            `json:"status"`
	FailReason    string            `json:"fail_reason,omitempty"`
	Steps         map[string]string `json:"steps"`
	TotalPages    int               `json:"total_pages"`
	RelevantPages int               `json:"relevant_pages"`
	SkippedPages  int               `json:"skipped_pages"`
	SkippedImages int               `json:"skipped_images"`
	Questions     int               `json:"questions"`
	Rejected      int               `json:"rejected"`
	Shortfall     int               `json:"shortfall"`
}
