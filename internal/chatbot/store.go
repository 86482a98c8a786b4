package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdmurray/portfolio-backend/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Store persists chat exchanges, visitor feedback, and evaluation scores.
type Store interface {
	SaveConversation(ctx context.Context, c *models.Conversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	History(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error)
	SaveFeedback(ctx context.Context, conversationID uuid.UUID, sessionID, rating string) (*models.Feedback, error)
	SaveEvaluation(ctx context.Context, e *models.Evaluation) error
	Analytics(ctx context.Context) (*Analytics, error)
}

// Analytics aggregates conversation volume, feedback split, and average
// evaluation scores for the admin dashboard.
type Analytics struct {
	Conversations    int64   `json:"conversations"`
	OnTopic          int64   `json:"on_topic"`
	ThumbsUp         int64   `json:"thumbs_up"`
	ThumbsDown       int64   `json:"thumbs_down"`
	Evaluated        int64   `json:"evaluated"`
	AvgCorrectness   float64 `json:"avg_correctness"`
	AvgConciseness   float64 `json:"avg_conciseness"`
	AvgComprehensive float64 `json:"avg_comprehensiveness"`
	AvgCoherence     float64 `json:"avg_coherence"`
	AvgOverall       float64 `json:"avg_overall"`
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) SaveConversation(ctx context.Context, c *models.Conversation) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO chatbot_conversations (session_id, user_message, bot_response, is_on_topic, confidence)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.SessionID, c.UserMessage, c.BotResponse, c.IsOnTopic, c.Confidence,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *PgStore) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	err := s.db.QueryRow(ctx,
		`SELECT id, session_id, user_message, bot_response, is_on_topic, confidence, created_at
		 FROM chatbot_conversations WHERE id = $1`, id,
	).Scan(&c.ID, &c.SessionID, &c.UserMessage, &c.BotResponse, &c.IsOnTopic, &c.Confidence, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// History returns the session's most recent exchanges in chronological order.
func (s *PgStore) History(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 6
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, user_message, bot_response, is_on_topic, confidence, created_at
		 FROM (
		   SELECT * FROM chatbot_conversations WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var history []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.SessionID, &c.UserMessage, &c.BotResponse, &c.IsOnTopic, &c.Confidence, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

// SaveFeedback records a thumbs rating. The conversation must exist and
// belong to the session; re-rating the same conversation overwrites the
// previous rating (UNIQUE constraint, upsert).
func (s *PgStore) SaveFeedback(ctx context.Context, conversationID uuid.UUID, sessionID, rating string) (*models.Feedback, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chatbot_conversations WHERE id = $1 AND session_id = $2)`,
		conversationID, sessionID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check conversation: %w", err)
	}
	if !exists {
		return nil, ErrConversationNotFound
	}

	var f models.Feedback
	err = s.db.QueryRow(ctx,
		`INSERT INTO chatbot_feedback (conversation_id, session_id, rating)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (conversation_id) DO UPDATE SET rating = $3
		 RETURNING id, conversation_id, session_id, rating, created_at`,
		conversationID, sessionID, rating,
	).Scan(&f.ID, &f.ConversationID, &f.SessionID, &f.Rating, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return &f, nil
}

func (s *PgStore) SaveEvaluation(ctx context.Context, e *models.Evaluation) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO chatbot_evaluations (conversation_id, correctness, conciseness, comprehensiveness, coherence, overall, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (conversation_id) DO UPDATE
		   SET correctness = $2, conciseness = $3, comprehensiveness = $4,
		       coherence = $5, overall = $6, feedback = $7
		 RETURNING id, created_at`,
		e.ConversationID, e.Correctness, e.Conciseness, e.Comprehensiveness,
		e.Coherence, e.Overall, e.Feedback,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *PgStore) Analytics(ctx context.Context) (*Analytics, error) {
	var a Analytics
	err := s.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE is_on_topic) FROM chatbot_conversations`,
	).Scan(&a.Conversations, &a.OnTopic)
	if err != nil {
		return nil, fmt.Errorf("conversation counts: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE rating = 'up'), count(*) FILTER (WHERE rating = 'down')
		 FROM chatbot_feedback`,
	).Scan(&a.ThumbsUp, &a.ThumbsDown)
	if err != nil {
		return nil, fmt.Errorf("feedback counts: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT count(*),
		        COALESCE(avg(correctness), 0), COALESCE(avg(conciseness), 0),
		        COALESCE(avg(comprehensiveness), 0), COALESCE(avg(coherence), 0),
		        COALESCE(avg(overall), 0)
		 FROM chatbot_evaluations`,
	).Scan(&a.Evaluated, &a.AvgCorrectness, &a.AvgConciseness, &a.AvgComprehensive, &a.AvgCoherence, &a.AvgOverall)
	if err != nil {
		return nil, fmt.Errorf("evaluation averages: %w", err)
	}

	return &a, nil
}
