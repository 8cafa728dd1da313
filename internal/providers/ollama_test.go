package providers

import "testing"

func TestResolveOllamaModelDefault(t *testing.T) {
	t.Setenv("QUIZFORGE_OLLAMA_MODEL", "")
	got := resolveOllamaModel("")
	if got != "llama3.1" {
		t.Fatalf("expected default llama3.1, got %q", got)
	}
}

func TestResolveOllamaModelAlias(t *testing.T) {
	t.Setenv("QUIZFORGE_OLLAMA_MODEL_LOCAL", "qwen2.5")
	got := resolveOllamaModel("local")
	if got != "qwen2.5" {
		t.Fatalf("expected alias model qwen2.5, got %q", got)
	}
}
