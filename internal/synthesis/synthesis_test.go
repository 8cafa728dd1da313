package synthesis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizforge/internal/models"
	"quizforge/internal/prompt"
	"quizforge/internal/providers"
	"quizforge/internal/util"
)

type scriptedProvider struct {
	mu       sync.Mutex
	calls    int
	failFor  int
	failWith error
	inner    providers.LLMProvider
}

func (s *scriptedProvider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	if n <= s.failFor {
		return providers.GenerateResponse{}, providers.ProviderInfo{Name: "scripted"}, s.failWith
	}
	return s.inner.Generate(ctx, req)
}

type memorySink struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (m *memorySink) RecordCall(_ context.Context, e AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func mockManager(t *testing.T) *providers.Manager {
	t.Helper()
	m, err := providers.NewManager("mock")
	require.NoError(t, err)
	return m
}

func testOrchestrator(t *testing.T, m *providers.Manager) *Orchestrator {
	t.Helper()
	return NewOrchestrator(m, prompt.NewBuilder(8000), 4, 2, zerolog.Nop())
}

func pageUnits(b *prompt.Builder, texts ...string) []Unit {
	units := make([]Unit, 0, len(texts))
	for i, text := range texts {
		page := i + 1
		units = append(units, Unit{
			Key:        "page-" + string(rune('0'+page)),
			Request:    b.PageText(text, models.DifficultyMedium, models.TypeMultipleChoice, 5, ""),
			SourcePage: &page,
		})
	}
	return units
}

func TestRunProducesTargetCount(t *testing.T) {
	o := testOrchestrator(t, mockManager(t))
	units := pageUnits(prompt.NewBuilder(8000), "the krebs cycle produces ATP", "osmosis moves water across membranes")

	out, err := o.Run(context.Background(), "pdf_text", units, 8, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out.Questions), 8)
	assert.NotEmpty(t, out.Questions)
	assert.Empty(t, out.SkippedUnits)
	for _, q := range out.Questions {
		require.NotNil(t, q.SourcePage)
	}
}

func TestRunEmptyUnits(t *testing.T) {
	o := testOrchestrator(t, mockManager(t))
	_, err := o.Run(context.Background(), "pdf_text", nil, 10, nil)
	assert.ErrorIs(t, err, util.ErrNoEligibleContent)
}

func TestRunRetriesTransientThenSucceeds(t *testing.T) {
	sp := &scriptedProvider{failFor: 1, failWith: errors.New("upstream temporarily unavailable"), inner: providers.NewMockProvider()}
	m := providers.NewManagerWithProviders(providers.NamedLLMProvider{
		Ref:      providers.ProviderRef{Raw: "scripted", Name: "scripted"},
		Provider: sp,
	})
	o := testOrchestrator(t, m)

	out, err := o.Run(context.Background(), "topic", pageUnits(prompt.NewBuilder(8000), "plate tectonics"), 5, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Questions)
	assert.Equal(t, 2, sp.calls)
}

func TestRunFailsOverToNextProvider(t *testing.T) {
	dead := &scriptedProvider{failFor: 100, failWith: errors.New("invalid api key"), inner: providers.NewMockProvider()}
	m := providers.NewManagerWithProviders(
		providers.NamedLLMProvider{Ref: providers.ProviderRef{Raw: "dead", Name: "dead"}, Provider: dead},
		providers.NamedLLMProvider{Ref: providers.ProviderRef{Raw: "mock", Name: "mock"}, Provider: providers.NewMockProvider()},
	)
	o := testOrchestrator(t, m)

	out, err := o.Run(context.Background(), "topic", pageUnits(prompt.NewBuilder(8000), "glaciers"), 5, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Questions)
	// Permanent errors skip the per-provider retry budget.
	assert.Equal(t, 1, dead.calls)
}

func TestRunBenchesQuotaProviderAcrossUnits(t *testing.T) {
	exhausted := &scriptedProvider{failFor: 100, failWith: errors.New("insufficient_quota for this billing period"), inner: providers.NewMockProvider()}
	m := providers.NewManagerWithProviders(
		providers.NamedLLMProvider{Ref: providers.ProviderRef{Raw: "exhausted", Name: "exhausted"}, Provider: exhausted},
		providers.NamedLLMProvider{Ref: providers.ProviderRef{Raw: "mock", Name: "mock"}, Provider: providers.NewMockProvider()},
	)
	// Concurrency 1 so the first unit benches the provider before the
	// second unit picks its provider.
	o := NewOrchestrator(m, prompt.NewBuilder(8000), 1, 2, zerolog.Nop()).WithCooldown(time.Hour)

	units := pageUnits(prompt.NewBuilder(8000), "photosynthesis stages", "nitrogen fixation")
	out, err := o.Run(context.Background(), "pdf_text", units, 6, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Questions)
	// Only the first unit should ever reach the exhausted provider.
	assert.Equal(t, 1, exhausted.calls)
}

func TestRunAllUnitsFail(t *testing.T) {
	dead := &scriptedProvider{failFor: 100, failWith: errors.New("invalid api key"), inner: providers.NewMockProvider()}
	m := providers.NewManagerWithProviders(providers.NamedLLMProvider{
		Ref:      providers.ProviderRef{Raw: "dead", Name: "dead"},
		Provider: dead,
	})
	o := testOrchestrator(t, m)

	_, err := o.Run(context.Background(), "topic", pageUnits(prompt.NewBuilder(8000), "volcanoes"), 5, nil)
	assert.ErrorIs(t, err, util.ErrSynthesisExhausted)
}

func TestRunAddMoreNeverRepeatsExisting(t *testing.T) {
	b := prompt.NewBuilder(8000)
	o := testOrchestrator(t, mockManager(t))

	first, err := o.Run(context.Background(), "topic", pageUnits(b, "cell biology basics"), 4, nil)
	require.NoError(t, err)
	existing := make([]string, 0, len(first.Questions))
	for _, q := range first.Questions {
		existing = append(existing, q.Text)
	}

	moreUnits := []Unit{{
		Key:     "add-more",
		Request: b.Topic("cell biology basics", models.DifficultyMedium, models.TypeMultipleChoice, 4, "").WithExclusions(existing),
	}}
	second, err := o.Run(context.Background(), "add_more", moreUnits, 4, existing)
	require.NoError(t, err)
	for _, q := range second.Questions {
		assert.NotContains(t, existing, q.Text)
	}
}

func TestRunRecordsAudit(t *testing.T) {
	sink := &memorySink{}
	o := testOrchestrator(t, mockManager(t)).WithAudit(sink)

	_, err := o.Run(context.Background(), "topic", pageUnits(prompt.NewBuilder(8000), "trigonometry"), 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, sink.entries)
	assert.Equal(t, "ok", sink.entries[0].Status)
	assert.Equal(t, "topic", sink.entries[0].Operation)
}
