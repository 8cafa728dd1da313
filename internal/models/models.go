package models

import "time"

type Mode string

const (
	ModeTopic         Mode = "topic"
	ModePDFText       Mode = "pdf_text"
	ModePDFImage      Mode = "pdf_image"
	ModeMistakeReview Mode = "mistake_review"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeEssay          QuestionType = "essay"
	TypeMixed          QuestionType = "mixed"
	TypeImage          QuestionType = "image"
)

type Category string

const (
	CategoryStandard Category = "standard"
	CategoryCritical Category = "critical"
	CategoryLinking  Category = "linking"
)

// Question is the persisted unit. CorrectIndex is nil for essay questions
// and a valid index into Options otherwise.
type Question struct {
	Type           QuestionType `json:"question_type"`
	Text           string       `json:"question"`
	Options        []string     `json:"options,omitempty"`
	CorrectIndex   *int         `json:"correct_answer,omitempty"`
	ExplanationEN  string       `json:"explanation_en"`
	ExplanationAR  string       `json:"explanation_ar"`
	Category       Category     `json:"question_category"`
	CognitiveLevel string       `json:"cognitive_level,omitempty"`
	Image          string       `json:"image,omitempty"`
	SourcePage     *int         `json:"source_page,omitempty"`
}

// QuestionSet is append-only at the domain level: adding questions appends
// validated, deduplicated entries and never mutates existing ones.
type QuestionSet struct {
	SetID         string       `json:"set_id"`
	Title         string       `json:"title"`
	SourceType    Mode         `json:"source_type"`
	Difficulty    Difficulty   `json:"difficulty"`
	QuestionType  QuestionType `json:"question_type"`
	CourseID      string       `json:"course_id,omitempty"`
	UserID        string       `json:"user_id,omitempty"`
	Questions     []Question   `json:"questions"`
	SkippedPages  int          `json:"skipped_pages"`
	SkippedImages int          `json:"skipped_images"`
	RejectedCount int          `json:"rejected_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type AttemptAnswer struct {
	QuestionIndex int  `json:"question_index"`
	SelectedIndex *int `json:"selected_index"`
}

type Attempt struct {
	AttemptID        string          `json:"attempt_id"`
	SetID            string          `json:"set_id"`
	UserID           string          `json:"user_id,omitempty"`
	Answers          []AttemptAnswer `json:"answers"`
	CorrectCount     int             `json:"correct_count"`
	ScorePercent     float64         `json:"score_percent"`
	TimeTakenSeconds int             `json:"time_taken_seconds"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AnswerBreakdown is the per-question result returned after an attempt is
// scored, carrying both the user's and the correct answer.
type AnswerBreakdown struct {
	QuestionIndex int          `json:"question_index"`
	Type          QuestionType `json:"question_type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	SelectedIndex *int         `json:"selected_index"`
	CorrectIndex  *int         `json:"correct_index"`
	IsCorrect     bool         `json:"is_correct"`
	ExplanationEN string       `json:"explanation_en"`
	ExplanationAR string       `json:"explanation_ar"`
	Image         string       `json:"image,omitempty"`
}
