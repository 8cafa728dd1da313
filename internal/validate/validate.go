package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"quizforge/internal/models"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls the JSON array payload out of a raw model response.
// Fenced blocks win; otherwise the widest [...] span is taken.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON array in response")
	}
	return s[start : end+1], nil
}

// Candidate is the pre-validation shape of one generated question.
// correct_answer is raw JSON because models emit either an index or the
// option text.
type Candidate struct {
	QuestionType   string          `json:"question_type"`
	Question       string          `json:"question"`
	Options        []string        `json:"options"`
	CorrectAnswer  json.RawMessage `json:"correct_answer"`
	ExplanationEN  string          `json:"explanation_en"`
	ExplanationAR  string          `json:"explanation_ar"`
	Category       string          `json:"question_category"`
	CognitiveLevel string          `json:"cognitive_level"`
}

func ParseCandidates(raw string) ([]Candidate, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var out []Candidate
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return out, nil
}

// Rejection records why one candidate was dropped.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func normalizeType(s string) models.QuestionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "mcq", "multiple choice":
		return models.TypeMultipleChoice
	case "true_false", "true/false", "truefalse":
		return models.TypeTrueFalse
	case "essay", "open_ended":
		return models.TypeEssay
	case "image":
		return models.TypeImage
	default:
		return ""
	}
}

func normalizeCategory(s string) models.Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "critical_thinking":
		return models.CategoryCritical
	case "linking":
		return models.CategoryLinking
	default:
		return models.CategoryStandard
	}
}

// resolveCorrect accepts either a 0-based index or the literal option
// text and returns the index.
func resolveCorrect(raw json.RawMessage, options []string) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing correct_answer")
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		if idx < 0 || idx >= len(options) {
			return 0, fmt.Errorf("correct_answer index %d out of range", idx)
		}
		return idx, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("unreadable correct_answer")
	}
	t := strings.TrimSpace(text)
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), t) {
			return i, nil
		}
	}
	// Models sometimes answer "A"/"B"/... for multiple choice.
	if len(t) == 1 {
		i := int(strings.ToUpper(t)[0]) - 'A'
		if i >= 0 && i < len(options) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("correct_answer %q matches no option", text)
}

// Check validates one candidate against the question schema and returns
// the normalized question.
func Check(c Candidate, expectImage string, sourcePage *int) (models.Question, error) {
	qt := normalizeType(c.QuestionType)
	if qt == "" {
		return models.Question{}, fmt.Errorf("unknown question_type %q", c.QuestionType)
	}
	if expectImage != "" {
		qt = models.TypeImage
	} else if qt == models.TypeImage {
		return models.Question{}, fmt.Errorf("image question without image payload")
	}
	text := strings.TrimSpace(c.Question)
	if text == "" {
		return models.Question{}, fmt.Errorf("empty question text")
	}
	if strings.TrimSpace(c.ExplanationEN) == "" || strings.TrimSpace(c.ExplanationAR) == "" {
		return models.Question{}, fmt.Errorf("missing bilingual explanation")
	}

	q := models.Question{
		Type:           qt,
		Text:           text,
		ExplanationEN:  strings.TrimSpace(c.ExplanationEN),
		ExplanationAR:  strings.TrimSpace(c.ExplanationAR),
		Category:       normalizeCategory(c.Category),
		CognitiveLevel: strings.TrimSpace(c.CognitiveLevel),
		Image:          expectImage,
		SourcePage:     sourcePage,
	}

	switch qt {
	case models.TypeEssay:
		q.Options = nil
		q.CorrectIndex = nil
		return q, nil
	case models.TypeTrueFalse:
		if len(c.Options) != 2 {
			return models.Question{}, fmt.Errorf("true/false needs 2 options, got %d", len(c.Options))
		}
	default:
		if len(c.Options) != 4 {
			return models.Question{}, fmt.Errorf("multiple choice needs 4 options, got %d", len(c.Options))
		}
	}
	for i, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			return models.Question{}, fmt.Errorf("option %d is empty", i)
		}
	}
	idx, err := resolveCorrect(c.CorrectAnswer, c.Options)
	if err != nil {
		return models.Question{}, err
	}
	q.Options = c.Options
	q.CorrectIndex = &idx
	return q, nil
}

// Deduper drops questions whose trimmed, case-folded text was already
// seen, across batches.
type Deduper struct {
	seen map[string]struct{}
}

func NewDeduper(existing []string) *Deduper {
	d := &Deduper{seen: make(map[string]struct{}, len(existing))}
	for _, s := range existing {
		d.seen[dedupeKey(s)] = struct{}{}
	}
	return d
}

func dedupeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Admit reports whether the question text is new, recording it if so.
func (d *Deduper) Admit(text string) bool {
	k := dedupeKey(text)
	if k == "" {
		return false
	}
	if _, ok := d.seen[k]; ok {
		return false
	}
	d.seen[k] = struct{}{}
	return true
}

// Screen validates and dedupes one raw model response in a single pass.
func Screen(raw string, dedup *Deduper, expectImage string, sourcePage *int) ([]models.Question, []Rejection, error) {
	candidates, err := ParseCandidates(raw)
	if err != nil {
		return nil, nil, err
	}
	valid := make([]models.Question, 0, len(candidates))
	var rejected []Rejection
	for i, c := range candidates {
		q, err := Check(c, expectImage, sourcePage)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		if dedup != nil && !dedup.Admit(q.Text) {
			rejected = append(rejected, Rejection{Index: i, Reason: "duplicate question text"})
			continue
		}
		valid = append(valid, q)
	}
	return valid, rejected, nil
}
