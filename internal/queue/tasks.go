package queue

const (
	TypeDocumentIngest = "document:ingest"
	TypeEvaluationRun  = "evaluation:run"
)

type DocumentIngestPayload struct {
	DocumentID string `json:"document_id"`
}

type EvaluationRunPayload struct {
	ConversationID string `json:"conversation_id"`
}
