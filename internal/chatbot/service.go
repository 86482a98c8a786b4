package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/vectorstore"
)

// The visitor always gets an answer: when the model call fails, this string
// is returned, logged, and persisted like any other exchange.
const apologyResponse = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// PromptSource resolves the active system prompt for a slot (DB override or
// built-in default).
type PromptSource interface {
	ActiveForSlot(ctx context.Context, slot string) (string, error)
}

// Retriever fetches reference-document snippets relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]vectorstore.SearchResult, error)
}

// Grounding supplies curated Q&A examples and the resume text that anchor
// the system prompt.
type Grounding interface {
	TrainingExamples(ctx context.Context) ([]models.TrainingSession, error)
	ResumeText(ctx context.Context) string
}

// Enqueuer schedules the post-chat evaluation batch.
type Enqueuer interface {
	EnqueueEvaluation(conversationID uuid.UUID) error
}

type ChatResult struct {
	Response       string    `json:"response"`
	IsOnTopic      bool      `json:"isOnTopic"`
	Confidence     float64   `json:"confidence"`
	ConversationID uuid.UUID `json:"conversationId"`
}

type Config struct {
	Model        string
	HistoryLimit int
}

type Service struct {
	store     Store
	gateway   llm.Gateway
	prompts   PromptSource
	retriever Retriever
	grounding Grounding
	enqueuer  Enqueuer
	cfg       Config
}

// NewService wires the chat orchestration. retriever, grounding, and
// enqueuer may be nil; the service degrades to prompt-only answers without
// them.
func NewService(store Store, gw llm.Gateway, prompts PromptSource, retriever Retriever, grounding Grounding, enqueuer Enqueuer, cfg Config) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 6
	}
	return &Service{
		store:     store,
		gateway:   gw,
		prompts:   prompts,
		retriever: retriever,
		grounding: grounding,
		enqueuer:  enqueuer,
		cfg:       cfg,
	}
}

// Chat answers a visitor question. It never returns an error: every failure
// mode degrades to the apology response with off-topic/zero-confidence, and
// the exchange is persisted whenever the store allows it.
func (s *Service) Chat(ctx context.Context, message, sessionID string) *ChatResult {
	answer, onTopic, confidence := s.generate(ctx, message, sessionID)

	conv := &models.Conversation{
		SessionID:   sessionID,
		UserMessage: message,
		BotResponse: answer,
		IsOnTopic:   onTopic,
		Confidence:  confidence,
	}
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		slog.Error("failed to persist conversation", "session", sessionID, "error", err)
	} else if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueEvaluation(conv.ID); err != nil {
			slog.Warn("failed to enqueue evaluation", "conversation", conv.ID, "error", err)
		}
	}

	return &ChatResult{
		Response:       answer,
		IsOnTopic:      onTopic,
		Confidence:     confidence,
		ConversationID: conv.ID,
	}
}

func (s *Service) generate(ctx context.Context, message, sessionID string) (string, bool, float64) {
	system, err := s.prompts.ActiveForSlot(ctx, models.SlotDefault)
	if err != nil {
		slog.Error("failed to resolve system prompt", "error", err)
		return apologyResponse, false, 0
	}

	system = s.augment(ctx, system, message)

	messages := []llm.Message{{Role: "system", Content: system}}
	history, err := s.store.History(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		slog.Warn("failed to load session history", "session", sessionID, "error", err)
	}
	for _, h := range history {
		messages = append(messages,
			llm.Message{Role: "user", Content: h.UserMessage},
			llm.Message{Role: "assistant", Content: h.BotResponse},
		)
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		slog.Error("chat completion failed", "session", sessionID, "error", err)
		return apologyResponse, false, 0
	}

	return parseEnvelope(resp.Content)
}

// augment appends retrieved snippets, curated Q&A examples, and the resume
// text to the system prompt. Each source is best-effort.
func (s *Service) augment(ctx context.Context, system, message string) string {
	var sb strings.Builder
	sb.WriteString(system)

	if s.retriever != nil {
		results, err := s.retriever.Retrieve(ctx, message)
		if err != nil {
			slog.Warn("document retrieval failed", "error", err)
		} else if len(results) > 0 {
			sb.WriteString("\n\nReference material:\n")
			for i, r := range results {
				fmt.Fprintf(&sb, "[%d] %s\n", i+1, r.Content)
			}
		}
	}

	if s.grounding != nil {
		if examples, err := s.grounding.TrainingExamples(ctx); err != nil {
			slog.Warn("failed to load training examples", "error", err)
		} else if len(examples) > 0 {
			sb.WriteString("\n\nCurated Q&A examples:\n")
			for _, ex := range examples {
				fmt.Fprintf(&sb, "Q: %s\nA: %s\n", ex.Question, ex.Answer)
			}
		}

		if text := s.grounding.ResumeText(ctx); text != "" {
			sb.WriteString("\n\nResume:\n")
			sb.WriteString(text)
		}
	}

	return sb.String()
}

// parseEnvelope decodes the model's JSON reply. The on-topic flag and
// confidence are opaque model outputs; we only clamp confidence into [0,1].
// When the reply is not the expected JSON, the raw text is used as the
// answer with neutral confidence.
func parseEnvelope(content string) (string, bool, float64) {
	trimmed := stripCodeFence(content)

	var env struct {
		Answer     string  `json:"answer"`
		OnTopic    bool    `json:"on_topic"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil || env.Answer == "" {
		return strings.TrimSpace(content), true, 0.5
	}

	confidence := env.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return env.Answer, env.OnTopic, confidence
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Feedback records a thumbs rating for a conversation in the visitor's
// session. Unknown conversation ids fail without creating a row.
func (s *Service) Feedback(ctx context.Context, conversationID uuid.UUID, sessionID, rating string) (*models.Feedback, error) {
	if rating != models.RatingUp && rating != models.RatingDown {
		return nil, fmt.Errorf("invalid rating %q", rating)
	}
	return s.store.SaveFeedback(ctx, conversationID, sessionID, rating)
}

// History exposes a session's prior exchanges to the chat widget.
func (s *Service) History(ctx context.Context, sessionID string) ([]models.Conversation, error) {
	return s.store.History(ctx, sessionID, s.cfg.HistoryLimit)
}
