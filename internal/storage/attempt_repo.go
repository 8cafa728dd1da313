package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"quizforge/internal/models"
	"quizforge/internal/review"
)

type AttemptRepo struct {
	db *DB
}

func NewAttemptRepo(db *DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

func (r *AttemptRepo) InsertAttempt(ctx context.Context, a *models.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO attempts (attempt_id, set_id, user_id, answers, correct_count, score_percent, time_taken_seconds, status)
VALUES ($1, $2, NULLIF($3,''), $4::jsonb, $5, $6, $7, $8)`,
		a.AttemptID, a.SetID, a.UserID, answers, a.CorrectCount, a.ScorePercent, a.TimeTakenSeconds, a.Status)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// CompleteAttempt records a submission's score. Submitting twice is
// rejected through the status guard.
func (r *AttemptRepo) CompleteAttempt(ctx context.Context, a *models.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE attempts
SET answers=$2::jsonb, correct_count=$3, score_percent=$4, time_taken_seconds=$5, status='completed', updated_at=NOW()
WHERE attempt_id=$1 AND status='in_progress'`,
		a.AttemptID, answers, a.CorrectCount, a.ScorePercent, a.TimeTakenSeconds)
	if err != nil {
		return fmt.Errorf("complete attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete attempt: %s not open", a.AttemptID)
	}
	return nil
}

func (r *AttemptRepo) GetAttempt(ctx context.Context, attemptID string) (models.Attempt, error) {
	var a models.Attempt
	var answers []byte
	err := r.db.Pool.QueryRow(ctx, `
SELECT attempt_id, set_id, COALESCE(user_id,''), answers, correct_count, score_percent, time_taken_seconds, status, created_at, updated_at
FROM attempts
WHERE attempt_id=$1`, attemptID).
		Scan(&a.AttemptID, &a.SetID, &a.UserID, &answers, &a.CorrectCount, &a.ScorePercent, &a.TimeTakenSeconds, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Attempt{}, fmt.Errorf("get attempt: %w", err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return models.Attempt{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	return a, nil
}

func (r *AttemptRepo) ListAttemptsBySet(ctx context.Context, setID string) ([]models.Attempt, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT attempt_id, set_id, COALESCE(user_id,''), answers, correct_count, score_percent, time_taken_seconds, status, created_at, updated_at
FROM attempts
WHERE set_id=$1
ORDER BY created_at DESC`, setID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Attempt, 0)
	for rows.Next() {
		var a models.Attempt
		var answers []byte
		if err := rows.Scan(&a.AttemptID, &a.SetID, &a.UserID, &answers, &a.CorrectCount, &a.ScorePercent, &a.TimeTakenSeconds, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &a.Answers); err != nil {
				return nil, fmt.Errorf("decode answers: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListCompletedAttempts joins a user's completed attempts with their
// question sets for mistake review, newest first. A non-empty courseID
// restricts history to that course's sets.
func (r *AttemptRepo) ListCompletedAttempts(ctx context.Context, userID, courseID string, limit int) ([]review.AttemptRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT a.set_id, s.questions, a.answers
FROM attempts a
JOIN question_sets s ON s.set_id = a.set_id
WHERE a.user_id=$1 AND a.status='completed' AND s.source_type <> 'mistake_review'
  AND ($2 = '' OR s.course_id = $2)
ORDER BY a.updated_at DESC
LIMIT $3`, userID, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("list completed attempts: %w", err)
	}
	defer rows.Close()

	out := make([]review.AttemptRecord, 0)
	for rows.Next() {
		var rec review.AttemptRecord
		var questions, answers []byte
		if err := rows.Scan(&rec.SetID, &questions, &answers); err != nil {
			return nil, fmt.Errorf("scan completed attempt: %w", err)
		}
		if err := json.Unmarshal(questions, &rec.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &rec.Answers); err != nil {
				return nil, fmt.Errorf("decode answers: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
