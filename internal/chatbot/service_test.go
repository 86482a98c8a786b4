package chatbot

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/models"
)

type fakeStore struct {
	conversations map[uuid.UUID]*models.Conversation
	feedback      map[uuid.UUID]*models.Feedback
	history       []models.Conversation
	saveErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[uuid.UUID]*models.Conversation),
		feedback:      make(map[uuid.UUID]*models.Feedback),
	}
}

func (f *fakeStore) SaveConversation(_ context.Context, c *models.Conversation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	c.ID = uuid.New()
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeStore) GetConversation(_ context.Context, id uuid.UUID) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeStore) History(_ context.Context, _ string, limit int) ([]models.Conversation, error) {
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeStore) SaveFeedback(_ context.Context, conversationID uuid.UUID, sessionID, rating string) (*models.Feedback, error) {
	c, ok := f.conversations[conversationID]
	if !ok || c.SessionID != sessionID {
		return nil, ErrConversationNotFound
	}
	fb := &models.Feedback{ID: uuid.New(), ConversationID: conversationID, Rating: rating}
	f.feedback[conversationID] = fb
	return fb, nil
}

func (f *fakeStore) SaveEvaluation(_ context.Context, _ *models.Evaluation) error { return nil }

func (f *fakeStore) Analytics(_ context.Context) (*Analytics, error) { return &Analytics{}, nil }

type fakeGateway struct {
	reply string
	err   error
	calls int
}

func (f *fakeGateway) Chat(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.reply}, nil
}

func (f *fakeGateway) Embed(_ context.Context, _ llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Provider(string) (llm.Provider, error) { return nil, errors.New("none") }

func (f *fakeGateway) ListModels() []llm.ModelInfo { return nil }

type staticPrompts struct{}

func (staticPrompts) ActiveForSlot(context.Context, string) (string, error) {
	return "You answer questions about the portfolio.", nil
}

func newTestService(store Store, gw llm.Gateway) *Service {
	return NewService(store, gw, staticPrompts{}, nil, nil, nil, Config{Model: "test-model"})
}

func TestChatParsesEnvelope(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{reply: `{"answer": "I built three Go services.", "on_topic": true, "confidence": 0.9}`}

	result := newTestService(store, gw).Chat(context.Background(), "What have you built?", "sess-1")

	assert.Equal(t, "I built three Go services.", result.Response)
	assert.True(t, result.IsOnTopic)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.NotEqual(t, uuid.Nil, result.ConversationID)

	saved := store.conversations[result.ConversationID]
	require.NotNil(t, saved)
	assert.Equal(t, "What have you built?", saved.UserMessage)
	assert.Equal(t, "sess-1", saved.SessionID)
}

func TestChatEnvelopeInCodeFence(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{reply: "```json\n{\"answer\": \"Hi there.\", \"on_topic\": true, \"confidence\": 0.7}\n```"}

	result := newTestService(store, gw).Chat(context.Background(), "hello", "sess-1")

	assert.Equal(t, "Hi there.", result.Response)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
}

func TestChatMalformedReplyFallsBackToRawText(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{reply: "Just a plain sentence."}

	result := newTestService(store, gw).Chat(context.Background(), "hello", "sess-1")

	assert.Equal(t, "Just a plain sentence.", result.Response)
	assert.True(t, result.IsOnTopic)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestChatClampsConfidence(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{reply: `{"answer": "ok", "on_topic": true, "confidence": 3.5}`}

	result := newTestService(store, gw).Chat(context.Background(), "hello", "sess-1")

	assert.Equal(t, 1.0, result.Confidence)
}

func TestChatGatewayFailureNeverErrors(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{err: errors.New("provider down")}

	result := newTestService(store, gw).Chat(context.Background(), "hello", "sess-1")

	require.NotNil(t, result)
	assert.Equal(t, apologyResponse, result.Response)
	assert.False(t, result.IsOnTopic)
	assert.Zero(t, result.Confidence)

	// The failed exchange is still recorded.
	assert.Len(t, store.conversations, 1)
}

func TestChatStoreFailureStillAnswers(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("db down")
	gw := &fakeGateway{reply: `{"answer": "fine", "on_topic": true, "confidence": 0.8}`}

	result := newTestService(store, gw).Chat(context.Background(), "hello", "sess-1")

	require.NotNil(t, result)
	assert.Equal(t, "fine", result.Response)
}

func TestChatIncludesSessionHistory(t *testing.T) {
	store := newFakeStore()
	store.history = []models.Conversation{
		{UserMessage: "first question", BotResponse: "first answer"},
	}
	gw := &fakeGateway{reply: `{"answer": "second answer", "on_topic": true, "confidence": 0.8}`}

	result := newTestService(store, gw).Chat(context.Background(), "second question", "sess-1")

	assert.Equal(t, "second answer", result.Response)
	assert.Equal(t, 1, gw.calls)
}

func TestFeedbackValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeGateway{reply: `{"answer": "x", "on_topic": true, "confidence": 1}`})

	result := svc.Chat(context.Background(), "q", "sess-1")

	_, err := svc.Feedback(context.Background(), result.ConversationID, "sess-1", "sideways")
	assert.Error(t, err)

	fb, err := svc.Feedback(context.Background(), result.ConversationID, "sess-1", models.RatingUp)
	require.NoError(t, err)
	assert.Equal(t, models.RatingUp, fb.Rating)
}

func TestFeedbackUnknownConversation(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGateway{})

	_, err := svc.Feedback(context.Background(), uuid.New(), "sess-1", models.RatingDown)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestFeedbackWrongSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeGateway{reply: `{"answer": "x", "on_topic": true, "confidence": 1}`})

	result := svc.Chat(context.Background(), "q", "sess-1")

	_, err := svc.Feedback(context.Background(), result.ConversationID, "other-session", models.RatingUp)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
