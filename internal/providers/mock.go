package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quizforge/internal/util"
)

// MockProvider emits deterministic, schema-valid question JSON. Output
// varies with the prompt text, so exclusion-aware reprompts produce
// different questions.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	count := req.Count
	if count <= 0 {
		count = 3
	}
	qtype := strings.ToLower(strings.TrimSpace(req.QuestionType))
	categories := []string{"standard", "standard", "critical", "linking"}

	items := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		variant := util.ShortHash([]byte(fmt.Sprintf("%s|%s|%d", req.Operation, req.Prompt, i)))
		item := map[string]any{
			"question":          fmt.Sprintf("Which statement about the material is correct? (variant %s)", variant),
			"explanation_en":    "Deterministic mock explanation.",
			"explanation_ar":    "شرح توضيحي تجريبي.",
			"question_category": categories[i%len(categories)],
			"cognitive_level":   "remember",
		}
		switch qtype {
		case "true_false":
			item["question_type"] = "true_false"
			item["options"] = []string{"True", "False"}
			item["correct_answer"] = i % 2
		case "essay":
			item["question_type"] = "essay"
		default:
			item["question_type"] = "multiple_choice"
			item["options"] = []string{
				"Option A " + variant,
				"Option B " + variant,
				"Option C " + variant,
				"Option D " + variant,
			}
			item["correct_answer"] = i % 4
		}
		items = append(items, item)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return GenerateResponse{}, ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}, err
	}
	// Wrapped in a fence on purpose: downstream parsing must strip it.
	text := "```json\n" + string(b) + "\n```"
	return GenerateResponse{Text: text}, ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}, nil
}
