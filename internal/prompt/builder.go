package prompt

import (
	"fmt"
	"strings"

	"quizforge/internal/models"
	"quizforge/internal/util"
)

const (
	tempTopic    = 0.85
	tempPDFText  = 0.7
	tempPDFImage = 0.75
	tempAddMore  = 0.9

	truncationMarker  = "[Content truncated...]"
	maxExclusionLines = 30
)

// Request is one synthesis call's parameters. Constructed once, then
// treated as immutable.
type Request struct {
	Mode         models.Mode         `json:"mode"`
	Difficulty   models.Difficulty   `json:"difficulty"`
	QuestionType models.QuestionType `json:"question_type"`
	TargetCount  int                 `json:"target_count"`
	Mix          CategoryMix         `json:"mix"`
	Topic        string              `json:"topic,omitempty"`
	ContextText  string              `json:"context_text,omitempty"`
	ImageLabels  []string            `json:"image_labels,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	Exclusions   []string            `json:"exclusions,omitempty"`
	Temperature  float64             `json:"temperature"`
}

type Builder struct {
	maxContextChars int
}

func NewBuilder(maxContextChars int) *Builder {
	if maxContextChars <= 0 {
		maxContextChars = 8000
	}
	return &Builder{maxContextChars: maxContextChars}
}

func (b *Builder) Topic(topic string, diff models.Difficulty, qtype models.QuestionType, count int, instructions string) Request {
	return Request{
		Mode:         models.ModeTopic,
		Difficulty:   diff,
		QuestionType: qtype,
		TargetCount:  count,
		Topic:        strings.TrimSpace(topic),
		Instructions: strings.TrimSpace(instructions),
		Temperature:  tempTopic,
	}
}

func (b *Builder) PageText(text string, diff models.Difficulty, qtype models.QuestionType, count int, instructions string) Request {
	return Request{
		Mode:         models.ModePDFText,
		Difficulty:   diff,
		QuestionType: qtype,
		TargetCount:  count,
		ContextText:  strings.TrimSpace(text),
		Instructions: strings.TrimSpace(instructions),
		Temperature:  tempPDFText,
	}
}

// ImageContext grounds a diagram question in the OCR-detected labels plus
// the source page's text, so the generative service needs no visual
// understanding.
func (b *Builder) ImageContext(labels []string, pageText string, diff models.Difficulty, count int, instructions string) Request {
	return Request{
		Mode:         models.ModePDFImage,
		Difficulty:   diff,
		QuestionType: models.TypeImage,
		TargetCount:  count,
		ContextText:  strings.TrimSpace(pageText),
		ImageLabels:  labels,
		Instructions: strings.TrimSpace(instructions),
		Temperature:  tempPDFImage,
	}
}

// WithExclusions marks an add-more request: existing question texts are
// suppressed with an explicit negative instruction, and sampling runs
// hotter to reduce near-duplicate phrasing.
func (r Request) WithExclusions(existing []string) Request {
	out := r
	out.Exclusions = existing
	out.Temperature = tempAddMore
	return out
}

// WithMix pins the category counts for this request. Fan-out callers use
// it so each unit asks for its share of a document-level mix rather than
// re-splitting its own small count.
func (r Request) WithMix(m CategoryMix) Request {
	out := r
	out.Mix = m
	return out
}

// Chunks splits oversized page text for fan-out when it exceeds the
// generative service's practical input bound.
func (b *Builder) Chunks(text string) []string {
	if len([]rune(text)) <= b.maxContextChars {
		return []string{text}
	}
	return util.ChunkText(text, b.maxContextChars, 200)
}

// Prompt renders the full instruction text for a request.
func (b *Builder) Prompt(r Request) string {
	var sb strings.Builder

	mix := r.Mix
	if mix.Total() == 0 {
		mix = SplitCategories(r.TargetCount)
	}
	switch r.QuestionType {
	case models.TypeMixed:
		mcq, tf := SplitMixedTypes(r.TargetCount)
		fmt.Fprintf(&sb, "Generate exactly %d quiz questions at %s difficulty: %d multiple choice (4 options each) and %d true/false.\n",
			r.TargetCount, r.Difficulty, mcq, tf)
	case models.TypeTrueFalse:
		fmt.Fprintf(&sb, "Generate exactly %d true/false questions at %s difficulty. Each question has exactly the options [\"True\", \"False\"].\n",
			r.TargetCount, r.Difficulty)
	case models.TypeEssay:
		fmt.Fprintf(&sb, "Generate exactly %d open-ended essay questions at %s difficulty. Essay questions have no options and no correct_answer.\n",
			r.TargetCount, r.Difficulty)
	case models.TypeImage:
		fmt.Fprintf(&sb, "Generate exactly %d multiple choice questions (4 options each) at %s difficulty about a diagram whose text labels were erased.\n",
			r.TargetCount, r.Difficulty)
	default:
		fmt.Fprintf(&sb, "Generate exactly %d multiple choice questions at %s difficulty, each with exactly 4 options.\n",
			r.TargetCount, r.Difficulty)
	}

	fmt.Fprintf(&sb, "\nCategory mix (set question_category accordingly):\n")
	fmt.Fprintf(&sb, "- %d standard: direct recall and application\n", mix.Standard)
	fmt.Fprintf(&sb, "- %d critical: higher-order critical thinking\n", mix.Critical)
	fmt.Fprintf(&sb, "- %d linking: connect two or more concepts\n", mix.Linking)

	sb.WriteString("\nEvery question must include a non-empty explanation_en (English) and explanation_ar (Arabic) in this same response.\n")
	sb.WriteString("Respond with a JSON array only. Each element: {\"question_type\", \"question\", \"options\", \"correct_answer\" (0-based index), \"explanation_en\", \"explanation_ar\", \"question_category\", \"cognitive_level\"}.\n")

	if r.Topic != "" {
		fmt.Fprintf(&sb, "\nSubject: %s\n", r.Topic)
	}
	if len(r.ImageLabels) > 0 {
		fmt.Fprintf(&sb, "\nThe erased diagram labels are: %s.\nAsk the learner to identify the erased structures.\n", strings.Join(r.ImageLabels, ", "))
	}
	if r.ContextText != "" {
		fmt.Fprintf(&sb, "\nSource material:\n%s\n", util.TruncateWithMarker(r.ContextText, b.maxContextChars, truncationMarker))
	}
	if r.Instructions != "" {
		fmt.Fprintf(&sb, "\nAdditional instructions: %s\n", r.Instructions)
	}
	if len(r.Exclusions) > 0 {
		sb.WriteString("\nDO NOT REPEAT any of the following existing questions. Find new angles on the material:\n")
		for i, q := range r.Exclusions {
			if i >= maxExclusionLines {
				break
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
	}
	return sb.String()
}
