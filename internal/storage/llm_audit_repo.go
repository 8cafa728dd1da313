package storage

import (
	"context"
	"fmt"

	"quizforge/internal/synthesis"
)

type LLMAuditRepo struct {
	db *DB
}

func NewLLMAuditRepo(db *DB) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

// RecordCall persists one upstream generation call.
func (r *LLMAuditRepo) RecordCall(ctx context.Context, e synthesis.AuditEntry) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls (call_id, operation, unit, provider_name, model, status, error_type, latency_ms)
VALUES (gen_random_uuid(), $1, NULLIF($2,''), $3, NULLIF($4,''), $5, NULLIF($6,''), $7)`,
		e.Operation, e.Unit, e.Provider, e.Model, e.Status, e.ErrorType, e.Latency.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
