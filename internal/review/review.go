package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizforge/internal/models"
	"quizforge/internal/util"
)

// AttemptRecord pairs one completed attempt's answers with the question
// set it was taken against.
type AttemptRecord struct {
	SetID     string
	Questions []models.Question
	Answers   []models.AttemptAnswer
}

// SelectMistakes walks attempt history newest-first and picks questions
// the learner got wrong. Unanswered questions qualify only when
// includeUnanswered is set. Repeats of the same question text across
// attempts are returned once.
func SelectMistakes(history []AttemptRecord, includeUnanswered bool, limit int) []models.Question {
	seen := make(map[string]struct{})
	var out []models.Question

	for _, rec := range history {
		selected := make(map[int]*int, len(rec.Answers))
		for _, a := range rec.Answers {
			selected[a.QuestionIndex] = a.SelectedIndex
		}
		for i, q := range rec.Questions {
			if q.Type == models.TypeEssay || q.CorrectIndex == nil {
				continue
			}
			sel, ok := selected[i]
			unanswered := !ok || sel == nil
			if unanswered {
				if !includeUnanswered {
					continue
				}
			} else if *sel == *q.CorrectIndex {
				continue
			}
			key := strings.ToLower(strings.Join(strings.Fields(q.Text), " "))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, q)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// HistorySource lists a user's completed attempts joined with their
// question sets, newest first. An empty courseID means all courses.
type HistorySource interface {
	ListCompletedAttempts(ctx context.Context, userID, courseID string, limit int) ([]AttemptRecord, error)
}

// SetWriter persists a new question set.
type SetWriter interface {
	InsertQuestionSet(ctx context.Context, set *models.QuestionSet) error
}

type Service struct {
	history HistorySource
	writer  SetWriter
}

func NewService(history HistorySource, writer SetWriter) *Service {
	return &Service{history: history, writer: writer}
}

// BuildReviewSet assembles and persists a mistake-review set from the
// user's attempt history, optionally scoped to one course.
func (s *Service) BuildReviewSet(ctx context.Context, userID, courseID string, includeUnanswered bool, limit int) (*models.QuestionSet, error) {
	history, err := s.history.ListCompletedAttempts(ctx, userID, courseID, 50)
	if err != nil {
		return nil, fmt.Errorf("load attempt history: %w", err)
	}
	picked := SelectMistakes(history, includeUnanswered, limit)
	if len(picked) == 0 {
		return nil, util.ErrNoQualifyingMistakes
	}

	now := time.Now().UTC()
	set := &models.QuestionSet{
		SetID:        uuid.NewString(),
		Title:        "Mistake review",
		SourceType:   models.ModeMistakeReview,
		Difficulty:   models.DifficultyMedium,
		QuestionType: models.TypeMixed,
		UserID:       userID,
		CourseID:     courseID,
		Questions:    picked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.writer.InsertQuestionSet(ctx, set); err != nil {
		return nil, fmt.Errorf("persist review set: %w", err)
	}
	return set, nil
}
