package chatbot

import (
	"context"
	"fmt"

	"github.com/jdmurray/portfolio-backend/internal/embedding"
	"github.com/jdmurray/portfolio-backend/internal/vectorstore"
)

// VectorRetriever embeds the visitor's question and looks up the most
// similar document chunks.
type VectorRetriever struct {
	embedder *embedding.Service
	store    vectorstore.VectorStore
	topK     int
	minScore float64
}

func NewVectorRetriever(embedder *embedding.Service, store vectorstore.VectorStore, topK int, minScore float64) *VectorRetriever {
	if topK <= 0 {
		topK = 5
	}
	return &VectorRetriever{embedder: embedder, store: store, topK: topK, minScore: minScore}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]vectorstore.SearchResult, error) {
	vec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.store.SimilaritySearch(ctx, vec, vectorstore.SearchOptions{
		TopK:     r.topK,
		MinScore: r.minScore,
	})
}
