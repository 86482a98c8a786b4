package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a single question/answer exchange, keyed by the ephemeral
// session id the chat widget generates client-side.
type Conversation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	UserMessage string    `json:"user_message" db:"user_message"`
	BotResponse string    `json:"bot_response" db:"bot_response"`
	IsOnTopic   bool      `json:"is_on_topic" db:"is_on_topic"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Feedback struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	SessionID      string    `json:"session_id" db:"session_id"`
	Rating         string    `json:"rating" db:"rating"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

const (
	RatingUp   = "up"
	RatingDown = "down"
)

// Evaluation holds LLM-judged quality scores for one conversation,
// one score per criterion on a 1-10 scale.
type Evaluation struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ConversationID    uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Correctness       float64   `json:"correctness" db:"correctness"`
	Conciseness       float64   `json:"conciseness" db:"conciseness"`
	Comprehensiveness float64   `json:"comprehensiveness" db:"comprehensiveness"`
	Coherence         float64   `json:"coherence" db:"coherence"`
	Overall           float64   `json:"overall" db:"overall"`
	Feedback          string    `json:"feedback,omitempty" db:"feedback"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// TrainingSession is an admin-curated Q&A pair appended to the chatbot's
// system prompt as a grounding example.
type TrainingSession struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Category  string    `json:"category,omitempty" db:"category"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChatbotDocument is an uploaded reference document whose text is chunked,
// embedded, and stored for retrieval.
type ChatbotDocument struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	FilePath      string    `json:"-" db:"file_path"`
	FileType      string    `json:"file_type" db:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes" db:"file_size_bytes"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

const (
	DocStatusPending    = "pending"
	DocStatusProcessing = "processing"
	DocStatusReady      = "ready"
	DocStatusFailed     = "failed"
)

type LearningInsight struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	Insight              string     `json:"insight" db:"insight"`
	Category             string     `json:"category,omitempty" db:"category"`
	SourceConversationID *uuid.UUID `json:"source_conversation_id,omitempty" db:"source_conversation_id"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
}

// PromptTemplate is a DB-stored override of a registry prompt. At most one
// template is active per slot.
type PromptTemplate struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Slot      string    `json:"slot" db:"slot"`
	Name      string    `json:"name" db:"name"`
	Content   string    `json:"content" db:"content"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	SlotDefault   = "default"
	SlotEnhanced  = "enhanced"
	SlotCustom    = "custom"
	SlotLangchain = "langchain"
)

func ValidSlot(s string) bool {
	switch s {
	case SlotDefault, SlotEnhanced, SlotCustom, SlotLangchain:
		return true
	}
	return false
}
