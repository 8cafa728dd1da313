package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/models"
)

func TestTopicRequestTemperature(t *testing.T) {
	b := NewBuilder(8000)
	r := b.Topic("photosynthesis", models.DifficultyMedium, models.TypeMultipleChoice, 10, "")
	assert.Equal(t, models.ModeTopic, r.Mode)
	assert.Equal(t, 0.85, r.Temperature)

	p := b.Prompt(r)
	assert.Contains(t, p, "photosynthesis")
	assert.Contains(t, p, "exactly 10 multiple choice")
	assert.Contains(t, p, "7 standard")
	assert.Contains(t, p, "2 critical")
	assert.Contains(t, p, "1 linking")
	assert.Contains(t, p, "explanation_ar")
}

func TestPageTextContextTruncated(t *testing.T) {
	b := NewBuilder(100)
	long := strings.Repeat("lorem ipsum dolor ", 50)
	r := b.PageText(long, models.DifficultyEasy, models.TypeMultipleChoice, 5, "")
	assert.Equal(t, 0.7, r.Temperature)

	p := b.Prompt(r)
	assert.Contains(t, p, "[Content truncated...]")
	assert.NotContains(t, p, long)
}

func TestImageContextListsLabels(t *testing.T) {
	b := NewBuilder(8000)
	r := b.ImageContext([]string{"mitochondria", "nucleus"}, "the cell has organelles", models.DifficultyHard, 3, "")
	assert.Equal(t, models.TypeImage, r.QuestionType)
	assert.Equal(t, 0.75, r.Temperature)

	p := b.Prompt(r)
	assert.Contains(t, p, "mitochondria, nucleus")
	assert.Contains(t, p, "the cell has organelles")
}

func TestWithExclusionsCapsAtThirty(t *testing.T) {
	b := NewBuilder(8000)
	existing := make([]string, 40)
	for i := range existing {
		existing[i] = "question number " + strings.Repeat("x", i+1)
	}
	r := b.Topic("biology", models.DifficultyMedium, models.TypeMixed, 5, "").WithExclusions(existing)
	assert.Equal(t, 0.9, r.Temperature)

	p := b.Prompt(r)
	assert.Contains(t, p, "DO NOT REPEAT")
	assert.Contains(t, p, existing[29])
	assert.NotContains(t, p, existing[30])
}

func TestPromptHonorsPinnedMix(t *testing.T) {
	b := NewBuilder(8000)
	r := b.PageText("cell biology", models.DifficultyMedium, models.TypeMultipleChoice, 2, "")
	r = r.WithMix(CategoryMix{Standard: 1, Critical: 1})

	p := b.Prompt(r)
	assert.Contains(t, p, "1 standard")
	assert.Contains(t, p, "1 critical")
	assert.Contains(t, p, "0 linking")
}

func TestMixedPromptSplitsTypes(t *testing.T) {
	b := NewBuilder(8000)
	p := b.Prompt(b.Topic("history", models.DifficultyEasy, models.TypeMixed, 10, ""))
	assert.Contains(t, p, "6 multiple choice")
	assert.Contains(t, p, "4 true/false")
}

func TestChunksShortTextPassthrough(t *testing.T) {
	b := NewBuilder(8000)
	chunks := b.Chunks("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunksSplitsLongText(t *testing.T) {
	b := NewBuilder(200)
	long := strings.Repeat("alpha beta gamma delta ", 60)
	chunks := b.Chunks(long)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 200)
	}
}
