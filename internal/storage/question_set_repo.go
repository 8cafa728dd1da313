package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"quizforge/internal/models"
)

type QuestionSetRepo struct {
	db *DB
}

func NewQuestionSetRepo(db *DB) *QuestionSetRepo {
	return &QuestionSetRepo{db: db}
}

func (r *QuestionSetRepo) InsertQuestionSet(ctx context.Context, set *models.QuestionSet) error {
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO question_sets (set_id, title, source_type, difficulty, question_type, course_id, user_id, questions, skipped_pages, skipped_images, rejected_count)
VALUES ($1, NULLIF($2,''), $3, $4, $5, NULLIF($6,''), NULLIF($7,''), $8::jsonb, $9, $10, $11)`,
		set.SetID, set.Title, set.SourceType, set.Difficulty, set.QuestionType,
		set.CourseID, set.UserID, questions, set.SkippedPages, set.SkippedImages, set.RejectedCount)
	if err != nil {
		return fmt.Errorf("insert question set: %w", err)
	}
	return nil
}

func (r *QuestionSetRepo) GetQuestionSet(ctx context.Context, setID string) (models.QuestionSet, error) {
	var s models.QuestionSet
	var questions []byte
	err := r.db.Pool.QueryRow(ctx, `
SELECT set_id, COALESCE(title,''), source_type, difficulty, question_type,
       COALESCE(course_id,''), COALESCE(user_id,''), questions,
       skipped_pages, skipped_images, rejected_count, created_at, updated_at
FROM question_sets
WHERE set_id=$1`, setID).
		Scan(&s.SetID, &s.Title, &s.SourceType, &s.Difficulty, &s.QuestionType,
			&s.CourseID, &s.UserID, &questions,
			&s.SkippedPages, &s.SkippedImages, &s.RejectedCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return models.QuestionSet{}, fmt.Errorf("get question set: %w", err)
	}
	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return models.QuestionSet{}, fmt.Errorf("decode questions: %w", err)
	}
	return s, nil
}

// ListQuestionSets returns sets newest-first without their question
// payloads. userID and courseID filter when non-empty.
func (r *QuestionSetRepo) ListQuestionSets(ctx context.Context, userID, courseID string, limit, offset int) ([]models.QuestionSet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT set_id, COALESCE(title,''), source_type, difficulty, question_type,
       COALESCE(course_id,''), COALESCE(user_id,''), jsonb_array_length(questions),
       skipped_pages, skipped_images, rejected_count, created_at, updated_at
FROM question_sets
WHERE ($1='' OR user_id=$1) AND ($2='' OR course_id=$2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`, userID, courseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list question sets: %w", err)
	}
	defer rows.Close()

	out := make([]models.QuestionSet, 0)
	for rows.Next() {
		var s models.QuestionSet
		var count int
		if err := rows.Scan(&s.SetID, &s.Title, &s.SourceType, &s.Difficulty, &s.QuestionType,
			&s.CourseID, &s.UserID, &count,
			&s.SkippedPages, &s.SkippedImages, &s.RejectedCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan question set: %w", err)
		}
		s.Questions = make([]models.Question, 0, count)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question sets: %w", err)
	}
	return out, nil
}

// AppendQuestions adds validated questions to an existing set without
// touching the stored ones.
func (r *QuestionSetRepo) AppendQuestions(ctx context.Context, setID string, qs []models.Question, rejectedDelta int) error {
	if len(qs) == 0 {
		return nil
	}
	payload, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE question_sets
SET questions = questions || $2::jsonb,
    rejected_count = rejected_count + $3,
    updated_at = NOW()
WHERE set_id=$1`, setID, payload, rejectedDelta)
	if err != nil {
		return fmt.Errorf("append questions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("append questions: set %s not found", setID)
	}
	return nil
}
