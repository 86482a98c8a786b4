package training

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/embedding"
	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/storage"
	"github.com/jdmurray/portfolio-backend/internal/vectorstore"
	"github.com/jdmurray/portfolio-backend/pkg/chunker"
	"github.com/jdmurray/portfolio-backend/pkg/textextract"
)

var (
	ErrSessionNotFound  = errors.New("training session not found")
	ErrDocumentNotFound = errors.New("chatbot document not found")
	ErrInsightNotFound  = errors.New("learning insight not found")
)

// Service manages the admin-curated material that grounds the chatbot:
// Q&A training pairs, uploaded reference documents (chunked and embedded
// for retrieval), and review insights.
type Service struct {
	db       *pgxpool.Pool
	storage  storage.Storage
	embedSvc *embedding.Service
	vectors  vectorstore.VectorStore
}

func NewService(db *pgxpool.Pool, store storage.Storage, embedSvc *embedding.Service, vectors vectorstore.VectorStore) *Service {
	return &Service{db: db, storage: store, embedSvc: embedSvc, vectors: vectors}
}

type SessionRequest struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Active   *bool  `json:"active"`
}

func (s *Service) CreateSession(ctx context.Context, req SessionRequest) (*models.TrainingSession, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var t models.TrainingSession
	err := s.db.QueryRow(ctx,
		`INSERT INTO chatbot_training_sessions (category, question, answer, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, category, question, answer, active, created_at, updated_at`,
		req.Category, req.Question, req.Answer, active,
	).Scan(&t.ID, &t.Category, &t.Question, &t.Answer, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert training session: %w", err)
	}
	return &t, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]models.TrainingSession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, category, question, answer, active, created_at, updated_at
		 FROM chatbot_training_sessions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list training sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		var t models.TrainingSession
		if err := rows.Scan(&t.ID, &t.Category, &t.Question, &t.Answer, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan training session: %w", err)
		}
		sessions = append(sessions, t)
	}
	return sessions, rows.Err()
}

// TrainingExamples returns the active Q&A pairs; implements the chatbot's
// grounding source.
func (s *Service) TrainingExamples(ctx context.Context) ([]models.TrainingSession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, category, question, answer, active, created_at, updated_at
		 FROM chatbot_training_sessions WHERE active ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active training sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		var t models.TrainingSession
		if err := rows.Scan(&t.ID, &t.Category, &t.Question, &t.Answer, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan training session: %w", err)
		}
		sessions = append(sessions, t)
	}
	return sessions, rows.Err()
}

func (s *Service) UpdateSession(ctx context.Context, id uuid.UUID, req SessionRequest) (*models.TrainingSession, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var t models.TrainingSession
	err := s.db.QueryRow(ctx,
		`UPDATE chatbot_training_sessions
		 SET category = $2, question = $3, answer = $4, active = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING id, category, question, answer, active, created_at, updated_at`,
		id, req.Category, req.Question, req.Answer, active,
	).Scan(&t.ID, &t.Category, &t.Question, &t.Answer, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update training session: %w", err)
	}
	return &t, nil
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM chatbot_training_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete training session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

type UploadDocumentRequest struct {
	Title    string
	FileName string
	FileType string
	Data     io.Reader
}

// UploadDocument stores the file and inserts a pending document row. The
// caller enqueues ingestion; chunking and embedding happen on the worker.
func (s *Service) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*models.ChatbotDocument, error) {
	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	path := fmt.Sprintf("chatbot-docs/%s-%s", time.Now().Format("20060102150405"), req.FileName)
	if err := s.storage.Save(ctx, path, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store document file: %w", err)
	}

	var d models.ChatbotDocument
	err = s.db.QueryRow(ctx,
		`INSERT INTO chatbot_documents (title, file_path, file_type, file_size_bytes, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, file_path, file_type, file_size_bytes, status, created_at`,
		req.Title, path, req.FileType, int64(len(data)), models.DocStatusPending,
	).Scan(&d.ID, &d.Title, &d.FilePath, &d.FileType, &d.FileSizeBytes, &d.Status, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return &d, nil
}

func (s *Service) ListDocuments(ctx context.Context) ([]models.ChatbotDocument, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, file_path, file_type, file_size_bytes, status, created_at
		 FROM chatbot_documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.ChatbotDocument
	for rows.Next() {
		var d models.ChatbotDocument
		if err := rows.Scan(&d.ID, &d.Title, &d.FilePath, &d.FileType, &d.FileSizeBytes, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*models.ChatbotDocument, error) {
	var d models.ChatbotDocument
	err := s.db.QueryRow(ctx,
		`SELECT id, title, file_path, file_type, file_size_bytes, status, created_at
		 FROM chatbot_documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.Title, &d.FilePath, &d.FileType, &d.FileSizeBytes, &d.Status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.vectors.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document chunks: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM chatbot_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document row: %w", err)
	}
	if err := s.storage.Delete(ctx, doc.FilePath); err != nil {
		slog.Warn("failed to remove document file", "path", doc.FilePath, "error", err)
	}
	return nil
}

// IngestDocument extracts, chunks, embeds, and stores a document's text.
// Runs on the worker; status moves pending -> processing -> ready/failed.
func (s *Service) IngestDocument(ctx context.Context, id uuid.UUID) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.setDocumentStatus(ctx, id, models.DocStatusProcessing); err != nil {
		return err
	}

	if err := s.ingest(ctx, doc); err != nil {
		if statusErr := s.setDocumentStatus(ctx, id, models.DocStatusFailed); statusErr != nil {
			slog.Error("failed to mark document failed", "document", id, "error", statusErr)
		}
		return err
	}

	return s.setDocumentStatus(ctx, id, models.DocStatusReady)
}

func (s *Service) ingest(ctx context.Context, doc *models.ChatbotDocument) error {
	rc, err := s.storage.Open(ctx, doc.FilePath)
	if err != nil {
		return fmt.Errorf("open document file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read document file: %w", err)
	}

	extracted, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), doc.FileType)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	pieces := chunker.Split(extracted.Content, chunker.DefaultOptions())
	if len(pieces) == 0 {
		return fmt.Errorf("no text chunks produced")
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Content
	}

	embeddings, err := s.embedSvc.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}

	chunks := make([]vectorstore.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = vectorstore.Chunk{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			ChunkIndex: p.Index,
			Content:    p.Content,
			Embedding:  embeddings[i],
			TokenCount: p.TokenCount,
		}
	}

	if err := s.vectors.Upsert(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	return nil
}

func (s *Service) setDocumentStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.db.Exec(ctx, `UPDATE chatbot_documents SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

type InsightRequest struct {
	Insight              string     `json:"insight"`
	Category             string     `json:"category"`
	SourceConversationID *uuid.UUID `json:"source_conversation_id"`
}

func (s *Service) CreateInsight(ctx context.Context, req InsightRequest) (*models.LearningInsight, error) {
	var in models.LearningInsight
	err := s.db.QueryRow(ctx,
		`INSERT INTO chatbot_learning_insights (insight, category, source_conversation_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, insight, category, source_conversation_id, created_at`,
		req.Insight, req.Category, req.SourceConversationID,
	).Scan(&in.ID, &in.Insight, &in.Category, &in.SourceConversationID, &in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert insight: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateInsight(ctx context.Context, id uuid.UUID, req InsightRequest) (*models.LearningInsight, error) {
	var in models.LearningInsight
	err := s.db.QueryRow(ctx,
		`UPDATE chatbot_learning_insights
		 SET insight = $2, category = $3, source_conversation_id = $4
		 WHERE id = $1
		 RETURNING id, insight, category, source_conversation_id, created_at`,
		id, req.Insight, req.Category, req.SourceConversationID,
	).Scan(&in.ID, &in.Insight, &in.Category, &in.SourceConversationID, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInsightNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update insight: %w", err)
	}
	return &in, nil
}

func (s *Service) ListInsights(ctx context.Context) ([]models.LearningInsight, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, insight, category, source_conversation_id, created_at
		 FROM chatbot_learning_insights ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var insights []models.LearningInsight
	for rows.Next() {
		var in models.LearningInsight
		if err := rows.Scan(&in.ID, &in.Insight, &in.Category, &in.SourceConversationID, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

func (s *Service) DeleteInsight(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM chatbot_learning_insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsightNotFound
	}
	return nil
}
