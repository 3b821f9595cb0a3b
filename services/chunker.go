package services

import "fmt"

// Default chunking thresholds for project content.
const (
	ChunkSize    = 1000
	ChunkOverlap = 100
)

// SplitText splits text into overlapping chunks: a window of chunkSize bytes
// advancing by chunkSize-overlap from offset 0 until the window start passes
// the end of the text. Text that already fits in one window is returned
// unchanged as a single chunk. Adjacent chunks share overlap bytes.
func SplitText(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got %d", overlap)
	}
	if len(text) <= chunkSize {
		return []string{text}, nil
	}
	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		if chunk := text[start:end]; chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
