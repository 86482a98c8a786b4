package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	TokenCount int
}

type SearchOptions struct {
	TopK     int
	MinScore float64
}

type SearchResult struct {
	ChunkID    uuid.UUID `json:"chunk_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
	ChunkIndex int       `json:"chunk_index"`
}

type VectorStore interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	SimilaritySearch(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}
