package attempts

import (
	"math"

	"quizforge/internal/models"
)

// PublicQuestion is a question as served to a learner mid-attempt, with
// the answer key and explanations withheld.
type PublicQuestion struct {
	QuestionIndex int                 `json:"question_index"`
	Type          models.QuestionType `json:"question_type"`
	Question      string              `json:"question"`
	Options       []string            `json:"options,omitempty"`
	Image         string              `json:"image,omitempty"`
}

// PublicQuestions strips answers and explanations for delivery.
func PublicQuestions(qs []models.Question) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(qs))
	for i, q := range qs {
		out = append(out, PublicQuestion{
			QuestionIndex: i,
			Type:          q.Type,
			Question:      q.Text,
			Options:       q.Options,
			Image:         q.Image,
		})
	}
	return out
}

// Score grades a submission against the set's answer key. Essay questions
// are excluded from the denominator; unanswered gradable questions count
// as wrong.
func Score(questions []models.Question, answers []models.AttemptAnswer) (correct int, percent float64, breakdown []models.AnswerBreakdown) {
	selected := make(map[int]*int, len(answers))
	for _, a := range answers {
		if a.QuestionIndex >= 0 && a.QuestionIndex < len(questions) {
			selected[a.QuestionIndex] = a.SelectedIndex
		}
	}

	gradable := 0
	breakdown = make([]models.AnswerBreakdown, 0, len(questions))
	for i, q := range questions {
		b := models.AnswerBreakdown{
			QuestionIndex: i,
			Type:          q.Type,
			Question:      q.Text,
			Options:       q.Options,
			SelectedIndex: selected[i],
			CorrectIndex:  q.CorrectIndex,
			ExplanationEN: q.ExplanationEN,
			ExplanationAR: q.ExplanationAR,
			Image:         q.Image,
		}
		if q.Type != models.TypeEssay && q.CorrectIndex != nil {
			gradable++
			if b.SelectedIndex != nil && *b.SelectedIndex == *q.CorrectIndex {
				b.IsCorrect = true
				correct++
			}
		}
		breakdown = append(breakdown, b)
	}

	if gradable > 0 {
		percent = math.Round(100*float64(correct)/float64(gradable)*100) / 100
	}
	return correct, percent, breakdown
}
