package util

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := ChunkText(text, 10, 2)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	if chunks[0] != "abcdefghij" {
		t.Fatalf("unexpected first chunk: %s", chunks[0])
	}
}

func TestChunkTextBreaksOnWords(t *testing.T) {
	text := strings.Repeat("alpha beta gamma ", 20)
	chunks := ChunkText(text, 50, 0)
	for i, c := range chunks {
		if strings.HasSuffix(c, "alph") || strings.HasSuffix(c, "bet") || strings.HasSuffix(c, "gamm") {
			t.Fatalf("chunk %d split mid-word: %q", i, c)
		}
	}
}

func TestChunkTextKeepsAllRunes(t *testing.T) {
	// A long run of non-space runes after an early break point used to be
	// skipped when the break moved the chunk end behind the next start.
	text := strings.Repeat("a", 60) + " " + strings.Repeat("b", 100)
	chunks := ChunkText(text, 100, 30)
	joined := strings.Join(chunks, " ")
	if got := strings.Count(joined, "b"); got < 100 {
		t.Fatalf("chunking dropped runes: want >=100 b's, got %d", got)
	}
}

func TestTruncateWithMarker(t *testing.T) {
	out := TruncateWithMarker("hello world", 5, "[cut]")
	if out != "hello[cut]" {
		t.Fatalf("unexpected truncation: %q", out)
	}
	if got := TruncateWithMarker("short", 10, "[cut]"); got != "short" {
		t.Fatalf("short input should be untouched, got %q", got)
	}
}
