package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/jdmurray/portfolio-backend/internal/queue"
	"github.com/jdmurray/portfolio-backend/internal/training"
)

// DocumentWorker chunks and embeds uploaded knowledge documents so the
// chatbot can retrieve from them.
type DocumentWorker struct {
	training *training.Service
}

func NewDocumentWorker(trainingSvc *training.Service) *DocumentWorker {
	return &DocumentWorker{training: trainingSvc}
}

func (w *DocumentWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocumentIngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document ID: %w", err)
	}

	slog.Info("ingesting document", "document_id", docID)

	if err := w.training.IngestDocument(ctx, docID); err != nil {
		return fmt.Errorf("ingest document %s: %w", docID, err)
	}

	slog.Info("document ready", "document_id", docID)
	return nil
}
