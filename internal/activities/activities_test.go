package activities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/diagram"
	"quizforge/internal/extract"
	"quizforge/internal/models"
	"quizforge/internal/prompt"
)

func testActivities() *Activities {
	return &Activities{builder: prompt.NewBuilder(8000)}
}

func pageFixtures(n int) []extract.PageRecord {
	pages := make([]extract.PageRecord, 0, n)
	for i := 0; i < n; i++ {
		pages = append(pages, extract.PageRecord{
			Index:      i,
			Text:       fmt.Sprintf("page %d covers the krebs cycle in detail", i),
			IsRelevant: true,
		})
	}
	return pages
}

func TestBuildUnitsKeepsDocumentMix(t *testing.T) {
	a := testActivities()
	units := a.buildUnits(SynthesizeInput{
		Operation:    "pdf_quiz",
		Difficulty:   models.DifficultyMedium,
		QuestionType: models.TypeMultipleChoice,
		TargetCount:  10,
		Pages:        pageFixtures(5),
	})
	require.Len(t, units, 5)

	var sum prompt.CategoryMix
	counted := 0
	for _, u := range units {
		require.Equal(t, u.Request.Mix.Total(), u.Request.TargetCount)
		sum.Standard += u.Request.Mix.Standard
		sum.Critical += u.Request.Mix.Critical
		sum.Linking += u.Request.Mix.Linking
		counted += u.Request.TargetCount
	}
	assert.Equal(t, 10, counted)
	assert.Equal(t, prompt.SplitCategories(10), sum)
	assert.Positive(t, sum.Critical)
	assert.Positive(t, sum.Linking)
}

func TestBuildUnitsDropsZeroCountUnits(t *testing.T) {
	a := testActivities()
	units := a.buildUnits(SynthesizeInput{
		Operation:    "pdf_quiz",
		Difficulty:   models.DifficultyEasy,
		QuestionType: models.TypeMultipleChoice,
		TargetCount:  3,
		Pages:        pageFixtures(8),
	})
	require.Len(t, units, 3)
	for _, u := range units {
		assert.Equal(t, 1, u.Request.TargetCount)
	}
}

func TestBuildUnitsSpansTextAndDiagrams(t *testing.T) {
	a := testActivities()
	units := a.buildUnits(SynthesizeInput{
		Operation:    "pdf_quiz",
		Difficulty:   models.DifficultyMedium,
		QuestionType: models.TypeMultipleChoice,
		TargetCount:  6,
		Pages:        pageFixtures(2),
		Diagrams: []diagram.Candidate{
			{SourcePage: 1, Labels: []string{"mitochondrion"}, Encoded: "payload"},
		},
	})
	require.Len(t, units, 3)

	total := 0
	for _, u := range units {
		total += u.Request.TargetCount
	}
	assert.Equal(t, 6, total)
	last := units[2]
	assert.Equal(t, "payload", last.ImagePayload)
	assert.Equal(t, models.TypeImage, last.Request.QuestionType)
}
