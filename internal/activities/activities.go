package activities

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"quizforge/internal/classify"
	"quizforge/internal/config"
	"quizforge/internal/diagram"
	"quizforge/internal/extract"
	"quizforge/internal/models"
	"quizforge/internal/ocr"
	"quizforge/internal/prompt"
	"quizforge/internal/providers"
	"quizforge/internal/storage"
	"quizforge/internal/synthesis"
	"quizforge/internal/util"
)

type Activities struct {
	cfg          config.Config
	setRepo      *storage.QuestionSetRepo
	orchestrator *synthesis.Orchestrator
	builder      *prompt.Builder
	extractor    *extract.Extractor
	diagrams     *diagram.Extractor
	policy       classify.Policy
	logger       zerolog.Logger
}

func New(cfg config.Config, db *storage.DB, engine ocr.Engine, logger zerolog.Logger) (*Activities, error) {
	pm, err := providers.NewManager(cfg.LLMProviders)
	if err != nil {
		return nil, err
	}
	builder := prompt.NewBuilder(cfg.MaxContextChars)
	orch := synthesis.NewOrchestrator(pm, builder, cfg.MaxConcurrentCalls, cfg.UnitRetries, logger).
		WithCooldown(time.Duration(cfg.ProviderCooldownSecs) * time.Second).
		WithAudit(storage.NewLLMAuditRepo(db))
	return &Activities{
		cfg:          cfg,
		setRepo:      storage.NewQuestionSetRepo(db),
		orchestrator: orch,
		builder:      builder,
		extractor:    extract.NewExtractor(engine, cfg.MinPageWords, cfg.OCRLanguages),
		diagrams: diagram.NewExtractor(engine, diagram.Policy{MinDim: cfg.MinImageDim},
			cfg.MaxImageDim, cfg.JPEGQuality, cfg.ScrubPad, cfg.OCRLanguages),
		policy: pagePolicy(cfg),
		logger: logger,
	}, nil
}

// pagePolicy keeps the built-in boilerplate keywords and overrides only
// the configured thresholds.
func pagePolicy(cfg config.Config) classify.Policy {
	p := classify.DefaultPolicy()
	if cfg.MinPageWords > 0 {
		p.MinWords = cfg.MinPageWords
	}
	if cfg.FirstPageMinWords > 0 {
		p.FirstPageMinWords = cfg.FirstPageMinWords
	}
	if cfg.LastPageMinWords > 0 {
		p.LastPageMinWords = cfg.LastPageMinWords
	}
	return p.WithExtraKeywords(cfg.ExtraSkipKeywords)
}

func (a *Activities) ExtractPagesActivity(ctx context.Context, in ExtractPagesInput) (ExtractPagesOutput, error) {
	pages, failed, err := a.extractor.Pages(ctx, in.DocumentPath)
	if err != nil {
		return ExtractPagesOutput{}, err
	}
	return ExtractPagesOutput{Pages: pages, FailedOCR: failed}, nil
}

func (a *Activities) ClassifyPagesActivity(ctx context.Context, in ClassifyPagesInput) (ClassifyPagesOutput, error) {
	_ = ctx
	relevant := classify.Apply(in.Pages, a.policy)
	return ClassifyPagesOutput{
		Pages:         in.Pages,
		RelevantCount: relevant,
		SkippedPages:  len(in.Pages) - relevant,
	}, nil
}

func (a *Activities) ExtractDiagramsActivity(ctx context.Context, in ExtractDiagramsInput) (ExtractDiagramsOutput, error) {
	candidates, skipped, err := a.diagrams.Candidates(ctx, in.DocumentPath, in.Pages)
	if err != nil {
		return ExtractDiagramsOutput{}, err
	}
	return ExtractDiagramsOutput{Diagrams: candidates, Skipped: skipped}, nil
}

func (a *Activities) SynthesizeActivity(ctx context.Context, in SynthesizeInput) (SynthesizeOutput, error) {
	units := a.buildUnits(in)
	out, err := a.orchestrator.Run(ctx, in.Operation, units, in.TargetCount, in.Existing)
	if err != nil {
		return SynthesizeOutput{}, err
	}
	return SynthesisOutcome(out), nil
}

// buildUnits converts pages, diagrams, or a bare topic into independent
// generation units, spreading the target count across them.
func (a *Activities) buildUnits(in SynthesizeInput) []synthesis.Unit {
	var units []synthesis.Unit

	if in.Topic != "" {
		req := a.builder.Topic(in.Topic, in.Difficulty, in.QuestionType, in.TargetCount, in.Instructions)
		if len(in.Existing) > 0 {
			req = req.WithExclusions(in.Existing)
		}
		return []synthesis.Unit{{Key: "topic", Request: req}}
	}

	type textUnit struct {
		page int
		text string
	}
	var texts []textUnit
	pageText := make(map[int]string, len(in.Pages))
	for _, p := range in.Pages {
		if !p.IsRelevant {
			continue
		}
		pageText[p.Index] = p.Text
		for _, chunk := range a.builder.Chunks(p.Text) {
			texts = append(texts, textUnit{page: p.Index, text: chunk})
		}
	}

	total := len(texts) + len(in.Diagrams)
	if total == 0 {
		return nil
	}
	// Split the whole target's category mix across units so small per-unit
	// counts cannot erase the critical and linking buckets.
	mixes := prompt.ApportionMix(in.TargetCount, total)

	for i, tu := range texts {
		m := mixes[i]
		if m.Total() == 0 {
			continue
		}
		page := tu.page
		req := a.builder.PageText(tu.text, in.Difficulty, in.QuestionType, m.Total(), in.Instructions).WithMix(m)
		if len(in.Existing) > 0 {
			req = req.WithExclusions(in.Existing)
		}
		units = append(units, synthesis.Unit{
			Key:        fmt.Sprintf("page-%d-%d", page, i),
			Request:    req,
			SourcePage: &page,
		})
	}
	for i, d := range in.Diagrams {
		m := mixes[len(texts)+i]
		if m.Total() == 0 {
			continue
		}
		page := d.SourcePage
		req := a.builder.ImageContext(d.Labels, pageText[page], in.Difficulty, m.Total(), in.Instructions).WithMix(m)
		if len(in.Existing) > 0 {
			req = req.WithExclusions(in.Existing)
		}
		units = append(units, synthesis.Unit{
			Key:          fmt.Sprintf("image-%d-%d", page, i),
			Request:      req,
			ImagePayload: d.Encoded,
			SourcePage:   &page,
		})
	}
	return units
}

func (a *Activities) PersistQuestionSetActivity(ctx context.Context, in PersistQuestionSetInput) (PersistQuestionSetOutput, error) {
	now := time.Now().UTC()
	set := &models.QuestionSet{
		SetID:         in.SetID,
		Title:         in.Title,
		SourceType:    in.SourceType,
		Difficulty:    in.Difficulty,
		QuestionType:  in.QuestionType,
		CourseID:      in.CourseID,
		UserID:        in.UserID,
		Questions:     in.Questions,
		SkippedPages:  in.SkippedPages,
		SkippedImages: in.SkippedImages,
		RejectedCount: in.RejectedCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.setRepo.InsertQuestionSet(ctx, set); err != nil {
		return PersistQuestionSetOutput{}, err
	}
	return PersistQuestionSetOutput{SetID: set.SetID}, nil
}

func (a *Activities) WriteSetArtifactActivity(ctx context.Context, in WriteSetArtifactInput) error {
	_ = ctx
	path := filepath.Join(a.cfg.DataOutRoot, in.SetID, "set_summary.json")
	return util.WriteJSONAtomic(path, in.Summary)
}
