package chunker

import "strings"

// DefaultChunkSize is the window width in words.
const DefaultChunkSize = 500

// Split cuts text into consecutive, non-overlapping windows of
// chunkSize words each. The last window may be shorter. Words are
// whatever strings.Fields considers words, so joining the chunks back
// with spaces reproduces the original word sequence exactly.
func Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil // Empty or whitespace-only text yields zero chunks, not an error.
	}

	chunks := make([]string, 0, (len(words)+chunkSize-1)/chunkSize)
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
