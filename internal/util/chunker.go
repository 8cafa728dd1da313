package util

import "strings"

// ChunkText splits text into chunks of at most chunkSize runes with the
// given overlap, preferring to break at whitespace so words stay whole.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1200
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	runes := []rune(text)
	out := make([]string, 0)
	for i := 0; i < len(runes); {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			// Look back for a break point so chunks end on a word.
			for j := end; j > i+chunkSize/2; j-- {
				if runes[j-1] == ' ' || runes[j-1] == '\n' {
					end = j
					break
				}
			}
		}
		part := strings.TrimSpace(string(runes[i:end]))
		if part != "" {
			out = append(out, part)
		}
		if end == len(runes) {
			break
		}
		// Advance from the adjusted end so a word break never drops runes.
		next := end - overlap
		if next <= i {
			next = end
		}
		i = next
	}
	return out
}

// TruncateWithMarker caps s at maxRunes and appends marker when content
// was dropped.
func TruncateWithMarker(s string, maxRunes int, marker string) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + marker
}
