package attempts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/models"
)

func intp(i int) *int { return &i }

func mcqSet(n int) []models.Question {
	qs := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, models.Question{
			Type:          models.TypeMultipleChoice,
			Text:          fmt.Sprintf("question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectIndex:  intp(i % 4),
			ExplanationEN: "en",
			ExplanationAR: "ar",
		})
	}
	return qs
}

func TestScoreEightOfTen(t *testing.T) {
	qs := mcqSet(10)
	answers := make([]models.AttemptAnswer, 0, 10)
	for i := range qs {
		sel := *qs[i].CorrectIndex
		if i >= 8 {
			sel = (sel + 1) % 4
		}
		answers = append(answers, models.AttemptAnswer{QuestionIndex: i, SelectedIndex: intp(sel)})
	}

	correct, percent, breakdown := Score(qs, answers)
	assert.Equal(t, 8, correct)
	assert.Equal(t, 80.0, percent)
	require.Len(t, breakdown, 10)
	assert.True(t, breakdown[0].IsCorrect)
	assert.False(t, breakdown[9].IsCorrect)
}

func TestScoreUnansweredCountsWrong(t *testing.T) {
	qs := mcqSet(3)
	answers := []models.AttemptAnswer{
		{QuestionIndex: 0, SelectedIndex: intp(0)},
		{QuestionIndex: 1, SelectedIndex: nil},
	}

	correct, percent, breakdown := Score(qs, answers)
	assert.Equal(t, 1, correct)
	assert.InDelta(t, 33.33, percent, 0.001)
	assert.Nil(t, breakdown[1].SelectedIndex)
	assert.Nil(t, breakdown[2].SelectedIndex)
}

func TestScoreSkipsEssayInDenominator(t *testing.T) {
	qs := mcqSet(2)
	qs = append(qs, models.Question{Type: models.TypeEssay, Text: "discuss entropy", ExplanationEN: "en", ExplanationAR: "ar"})
	answers := []models.AttemptAnswer{
		{QuestionIndex: 0, SelectedIndex: intp(0)},
		{QuestionIndex: 1, SelectedIndex: intp(1)},
	}

	correct, percent, breakdown := Score(qs, answers)
	assert.Equal(t, 2, correct)
	assert.Equal(t, 100.0, percent)
	require.Len(t, breakdown, 3)
	assert.False(t, breakdown[2].IsCorrect)
}

func TestScoreIgnoresOutOfRangeAnswers(t *testing.T) {
	qs := mcqSet(2)
	answers := []models.AttemptAnswer{
		{QuestionIndex: 99, SelectedIndex: intp(0)},
		{QuestionIndex: -1, SelectedIndex: intp(0)},
	}

	correct, percent, _ := Score(qs, answers)
	assert.Equal(t, 0, correct)
	assert.Equal(t, 0.0, percent)
}

func TestPublicQuestionsHideAnswers(t *testing.T) {
	pub := PublicQuestions(mcqSet(2))
	require.Len(t, pub, 2)
	assert.Equal(t, 0, pub[0].QuestionIndex)
	assert.Equal(t, []string{"a", "b", "c", "d"}, pub[0].Options)
}
