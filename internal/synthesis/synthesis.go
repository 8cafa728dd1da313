package synthesis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"quizforge/internal/models"
	"quizforge/internal/prompt"
	"quizforge/internal/providers"
	"quizforge/internal/util"
	"quizforge/internal/validate"
)

// Unit is one independent generation call: a relevant page, a diagram,
// a text chunk, or a whole topic request.
type Unit struct {
	Key          string
	Request      prompt.Request
	ImagePayload string
	SourcePage   *int
}

// Outcome is the merged result of a fan-out run. Questions are deduped
// and capped at the target; a run with failures can still succeed
// partially.
type Outcome struct {
	Questions    []models.Question    `json:"questions"`
	SkippedUnits []string             `json:"skipped_units,omitempty"`
	Rejected     []validate.Rejection `json:"rejected,omitempty"`
	Shortfall    int                  `json:"shortfall"`
}

// AuditEntry records one upstream generation call for the audit trail.
type AuditEntry struct {
	Operation string
	Unit      string
	Provider  string
	Model     string
	Status    string
	ErrorType string
	Latency   time.Duration
}

// AuditSink persists audit entries. Failures are logged, never fatal.
type AuditSink interface {
	RecordCall(ctx context.Context, e AuditEntry) error
}

type Orchestrator struct {
	manager       *providers.Manager
	builder       *prompt.Builder
	maxConcurrent int64
	unitRetries   int
	cooldown      time.Duration
	audit         AuditSink
	logger        zerolog.Logger

	coolMu        sync.Mutex
	disabledUntil map[int]time.Time
}

func NewOrchestrator(manager *providers.Manager, builder *prompt.Builder, maxConcurrent, unitRetries int, logger zerolog.Logger) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if unitRetries < 0 {
		unitRetries = 0
	}
	return &Orchestrator{
		manager:       manager,
		builder:       builder,
		maxConcurrent: int64(maxConcurrent),
		unitRetries:   unitRetries,
		logger:        logger,
		disabledUntil: make(map[int]time.Time),
	}
}

// WithCooldown benches a provider for d after a quota failure, so later
// units in the same process skip straight to the next provider. Zero
// disables benching.
func (o *Orchestrator) WithCooldown(d time.Duration) *Orchestrator {
	o.cooldown = d
	return o
}

// WithAudit attaches an audit sink for upstream call records.
func (o *Orchestrator) WithAudit(sink AuditSink) *Orchestrator {
	o.audit = sink
	return o
}

// Run fans units out across providers under the concurrency cap and
// merges the validated results. existing seeds the deduper so add-more
// runs never repeat a stored question.
func (o *Orchestrator) Run(ctx context.Context, operation string, units []Unit, target int, existing []string) (Outcome, error) {
	if len(units) == 0 {
		return Outcome{}, util.ErrNoEligibleContent
	}

	sem := semaphore.NewWeighted(o.maxConcurrent)
	var wg sync.WaitGroup

	var mu sync.Mutex
	out := Outcome{}
	dedup := validate.NewDeduper(existing)

	for _, u := range units {
		wg.Add(1)
		go func(u Unit) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				out.SkippedUnits = append(out.SkippedUnits, u.Key)
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			raw, err := o.generateUnit(ctx, operation, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.logger.Warn().Err(err).Str("unit", u.Key).Msg("generation unit skipped")
				out.SkippedUnits = append(out.SkippedUnits, u.Key)
				return
			}
			valid, rejected, err := validate.Screen(raw, dedup, u.ImagePayload, u.SourcePage)
			if err != nil {
				o.logger.Warn().Err(err).Str("unit", u.Key).Msg("unparseable model response")
				out.SkippedUnits = append(out.SkippedUnits, u.Key)
				return
			}
			out.Questions = append(out.Questions, valid...)
			out.Rejected = append(out.Rejected, rejected...)
		}(u)
	}
	wg.Wait()

	if len(out.Questions) == 0 {
		return Outcome{}, util.ErrSynthesisExhausted
	}
	if target > 0 && len(out.Questions) > target {
		out.Questions = out.Questions[:target]
	}
	if target > 0 && len(out.Questions) < target {
		out.Shortfall = target - len(out.Questions)
	}
	return out, nil
}

// generateUnit walks providers in preference order, retrying transient
// failures per provider before failing over to the next.
func (o *Orchestrator) generateUnit(ctx context.Context, operation string, u Unit) (string, error) {
	req := providers.GenerateRequest{
		Operation:    operation,
		Prompt:       o.builder.Prompt(u.Request),
		Temperature:  u.Request.Temperature,
		Count:        u.Request.TargetCount,
		QuestionType: string(u.Request.QuestionType),
	}

	var lastErr error
	for _, idx := range o.manager.PreferredLLMOrder() {
		if o.coolingDown(idx) {
			continue
		}
		p, ref := o.manager.LLMProviderByIndex(idx)
		for attempt := 0; attempt <= o.unitRetries; attempt++ {
			start := time.Now()
			resp, info, err := p.Generate(ctx, req)
			o.record(ctx, operation, u.Key, ref.Name, info.Model, err, time.Since(start))
			if err == nil {
				return resp.Text, nil
			}
			lastErr = err
			t := providers.ClassifyError(err)
			if t == providers.ErrorContext {
				return "", err
			}
			if t == providers.ErrorQuota {
				o.benchProvider(idx, ref.Name)
			}
			if !providers.Retryable(t) {
				break
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("all providers cooling down")
	}
	return "", lastErr
}

func (o *Orchestrator) coolingDown(idx int) bool {
	if o.cooldown <= 0 {
		return false
	}
	o.coolMu.Lock()
	defer o.coolMu.Unlock()
	return time.Now().Before(o.disabledUntil[idx])
}

func (o *Orchestrator) benchProvider(idx int, name string) {
	if o.cooldown <= 0 {
		return
	}
	o.coolMu.Lock()
	o.disabledUntil[idx] = time.Now().Add(o.cooldown)
	o.coolMu.Unlock()
	o.logger.Warn().Str("provider", name).Dur("cooldown", o.cooldown).Msg("provider benched after quota error")
}

func (o *Orchestrator) record(ctx context.Context, operation, unit, provider, model string, callErr error, latency time.Duration) {
	if o.audit == nil {
		return
	}
	e := AuditEntry{
		Operation: operation,
		Unit:      unit,
		Provider:  provider,
		Model:     model,
		Status:    "ok",
		Latency:   latency,
	}
	if callErr != nil {
		e.Status = "error"
		e.ErrorType = string(providers.ClassifyError(callErr))
	}
	if err := o.audit.RecordCall(ctx, e); err != nil {
		o.logger.Warn().Err(err).Msg("audit record failed")
	}
}
