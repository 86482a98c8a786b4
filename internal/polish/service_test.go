package polish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
)

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

func (f *fakeGateway) Embed(context.Context, llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Provider(string) (llm.Provider, error) { return nil, errors.New("none") }

func (f *fakeGateway) ListModels() []llm.ModelInfo { return nil }

func TestPolishShortTextSkipsModel(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	review, err := svc.Polish(context.Background(), "hi", "blog post")
	require.NoError(t, err)

	assert.Zero(t, gw.calls)
	assert.Equal(t, 50.0, review.OverallScore)
	assert.Empty(t, review.Suggestions)
	assert.NotEmpty(t, review.Summary)
}

func TestPolishParsesReview(t *testing.T) {
	gw := &fakeGateway{reply: `{
		"suggestions": [{"type": "clarity", "original": "utilize", "improved": "use", "reason": "simpler"}],
		"overall_score": 78,
		"summary": "Solid draft with minor wordiness."
	}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	text := "This is a reasonably long draft. It talks about several projects in detail."
	review, err := svc.Polish(context.Background(), text, "blog post")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls)
	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, "use", review.Suggestions[0].Improved)
	assert.Equal(t, 78.0, review.OverallScore)
	assert.Greater(t, review.Readability, 0.0)
}

func TestPolishClampsOverallScore(t *testing.T) {
	gw := &fakeGateway{reply: `{"suggestions": [], "overall_score": 300, "summary": "x"}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	review, err := svc.Polish(context.Background(), "A long enough piece of writing for review.", "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, review.OverallScore)
}

func TestPolishDegradesOnGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("provider down")}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	review, err := svc.Polish(context.Background(), "A long enough piece of writing for review.", "")
	require.NoError(t, err)
	assert.Equal(t, 50.0, review.OverallScore)
	assert.Empty(t, review.Suggestions)
	assert.Equal(t, 8, review.WordCount)
	assert.Greater(t, review.Readability, 0.0)
}

func TestPolishDegradesOnUnparseableReply(t *testing.T) {
	gw := &fakeGateway{reply: "I cannot answer in JSON today."}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	review, err := svc.Polish(context.Background(), "A long enough piece of writing for review.", "")
	require.NoError(t, err)
	assert.Equal(t, 50.0, review.OverallScore)
	assert.Empty(t, review.Suggestions)
}

func TestPolishCountsWords(t *testing.T) {
	gw := &fakeGateway{reply: `{"suggestions": [], "overall_score": 60, "summary": "ok"}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	review, err := svc.Polish(context.Background(), "<p>Five **plain** words right here.</p>", "")
	require.NoError(t, err)
	assert.Equal(t, 5, review.WordCount)
}

func TestQuickSuggestionsDegradesOnGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("provider down")}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	suggestions, err := svc.QuickSuggestions(context.Background(), "A long enough piece of writing for review.")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestImproveSelectionDegradesOnGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("provider down")}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	improved, err := svc.ImproveSelection(context.Background(), "full text", "keep me")
	require.NoError(t, err)
	assert.Equal(t, "keep me", improved)
}

func TestQuickSuggestionsShortText(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	suggestions, err := svc.QuickSuggestions(context.Background(), "   ok  ")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Zero(t, gw.calls)
}

func TestQuickSuggestions(t *testing.T) {
	gw := &fakeGateway{reply: `{"suggestions": ["Shorten the intro.", "Add an example."]}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	suggestions, err := svc.QuickSuggestions(context.Background(), "A draft that goes on for a while about my projects.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shorten the intro.", "Add an example."}, suggestions)
}

func TestImproveSelection(t *testing.T) {
	gw := &fakeGateway{reply: `{"improved": "I shipped the service in June."}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	improved, err := svc.ImproveSelection(context.Background(),
		"Full draft text here.", "The service was shipped by me in June.")
	require.NoError(t, err)
	assert.Equal(t, "I shipped the service in June.", improved)
}

func TestImproveSelectionEmptySelection(t *testing.T) {
	svc := NewService(&fakeGateway{}, prompt.NewRegistry(), "test-model")

	_, err := svc.ImproveSelection(context.Background(), "text", "   ")
	assert.Error(t, err)
}

func TestImproveSelectionEmptyReplyKeepsOriginal(t *testing.T) {
	gw := &fakeGateway{reply: `{"improved": ""}`}
	svc := NewService(gw, prompt.NewRegistry(), "test-model")

	improved, err := svc.ImproveSelection(context.Background(), "text", "keep me")
	require.NoError(t, err)
	assert.Equal(t, "keep me", improved)
}
