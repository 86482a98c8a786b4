package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jdmurray/portfolio-backend/internal/llm"
)

// maxBatch caps one provider request; OpenAI rejects larger input arrays.
const maxBatch = 100

const defaultModel = "text-embedding-3-small"

// Service turns text into vectors through the LLM gateway.
type Service struct {
	gateway llm.Gateway
	model   string
}

func NewService(gw llm.Gateway, model string) *Service {
	if model == "" {
		model = defaultModel
	}
	return &Service{gateway: gw, model: model}
}

// Embed returns one vector per input text, in input order.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: texts[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("embed texts %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, resp.Embeddings...)
	}
	return vectors, nil
}

// EmbedSingle embeds one text.
func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("provider returned no embedding")
	}
	return vectors[0], nil
}
