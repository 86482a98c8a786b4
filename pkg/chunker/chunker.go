package chunker

import (
	"strings"
	"unicode/utf8"
)

type Options struct {
	ChunkSize    int // target chunk size in characters
	ChunkOverlap int // overlap between chunks, fixed strategy only
	Strategy     string
}

type Chunk struct {
	Content    string
	Index      int
	TokenCount int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Strategy:     "recursive",
	}
}

// Split breaks text into chunks suitable for embedding. The recursive
// strategy prefers paragraph and sentence boundaries; "fixed" slices by
// rune count with overlap.
func Split(text string, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}

	var chunks []Chunk
	switch opts.Strategy {
	case "fixed":
		chunks = chunkFixed(text, opts)
	default:
		chunks = chunkRecursive(text, opts)
	}

	for i := range chunks {
		chunks[i].TokenCount = estimateTokens(chunks[i].Content)
	}
	return chunks
}

// estimateTokens approximates the token count; ~3/4 token per word holds
// well enough for budget decisions on English prose.
func estimateTokens(text string) int {
	n := len(strings.Fields(text)) * 4 / 3
	if n < 1 {
		n = 1
	}
	return n
}

func chunkFixed(text string, opts Options) []Chunk {
	var chunks []Chunk
	runes := []rune(text)
	idx := 0

	for start := 0; start < len(runes); {
		end := start + opts.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		content := string(runes[start:end])
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, Chunk{Content: content, Index: idx})
			idx++
		}

		step := opts.ChunkSize - opts.ChunkOverlap
		if step <= 0 {
			step = opts.ChunkSize
		}
		start += step
	}

	return chunks
}

func chunkRecursive(text string, opts Options) []Chunk {
	separators := []string{"\n\n", "\n", ". ", " "}

	var chunks []Chunk
	idx := 0

	for _, part := range splitRecursive(text, separators, opts.ChunkSize) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, Chunk{Content: part, Index: idx})
		idx++
	}

	return chunks
}

func splitRecursive(text string, separators []string, chunkSize int) []string {
	if utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		// No boundary left to respect; slice by rune count.
		var result []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += chunkSize {
			end := i + chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			result = append(result, string(runes[i:end]))
		}
		return result
	}

	sep := separators[0]
	parts := strings.Split(text, sep)
	var result []string
	var current strings.Builder

	for _, part := range parts {
		if current.Len() > 0 && utf8.RuneCountInString(current.String()+sep+part) > chunkSize {
			result = append(result, splitRecursive(current.String(), separators[1:], chunkSize)...)
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}

	if current.Len() > 0 {
		result = append(result, splitRecursive(current.String(), separators[1:], chunkSize)...)
	}

	return result
}
