package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

// GenerateRequest carries one synthesis call. Prompt already embeds the
// source material; Count is the number of questions requested from this
// single call.
type GenerateRequest struct {
	Operation    string  `json:"operation"`
	Prompt       string  `json:"prompt"`
	Temperature  float64 `json:"temperature"`
	Count        int     `json:"count"`
	QuestionType string  `json:"question_type"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
