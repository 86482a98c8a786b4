package eval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
)

// scriptedGateway answers each criterion with a canned score, keyed by the
// criterion name found in the rendered system prompt.
type scriptedGateway struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
}

func (g *scriptedGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	system := req.Messages[0].Content
	for criterion, reply := range g.replies {
		if strings.Contains(system, criterion) {
			return &llm.ChatResponse{Content: reply}, nil
		}
	}
	for criterion, err := range g.errs {
		if strings.Contains(system, criterion) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no scripted reply for prompt: %s", system)
}

func (g *scriptedGateway) Embed(context.Context, llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (g *scriptedGateway) Provider(string) (llm.Provider, error) { return nil, errors.New("none") }

func (g *scriptedGateway) ListModels() []llm.ModelInfo { return nil }

func scoreReply(score float64) string {
	return fmt.Sprintf(`{"score": %g, "feedback": "noted"}`, score)
}

func TestEvaluateAveragesAllCriteria(t *testing.T) {
	gw := &scriptedGateway{replies: map[string]string{
		CriterionCorrectness:       scoreReply(8),
		CriterionConciseness:       scoreReply(6),
		CriterionComprehensiveness: scoreReply(10),
		CriterionCoherence:         scoreReply(4),
	}}
	judge := NewJudge(gw, prompt.NewRegistry(), "")

	result, err := judge.Evaluate(context.Background(), "What did you build?", "A Go backend.")
	require.NoError(t, err)

	assert.Len(t, result.Scores, 4)
	assert.Equal(t, 8.0, result.Scores[CriterionCorrectness].Score)
	assert.Equal(t, 6.0, result.Scores[CriterionConciseness].Score)
	assert.InDelta(t, 7.0, result.Overall, 1e-9)
}

func TestEvaluateFailedCriterionGetsNeutralScore(t *testing.T) {
	gw := &scriptedGateway{
		replies: map[string]string{
			CriterionCorrectness:       scoreReply(9),
			CriterionConciseness:       scoreReply(9),
			CriterionComprehensiveness: scoreReply(9),
		},
		errs: map[string]error{
			CriterionCoherence: errors.New("provider down"),
		},
	}
	judge := NewJudge(gw, prompt.NewRegistry(), "")

	result, err := judge.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)

	assert.Equal(t, float64(neutralScore), result.Scores[CriterionCoherence].Score)
	assert.InDelta(t, 8.0, result.Overall, 1e-9)
}

func TestEvaluateAllCallsFailing(t *testing.T) {
	gw := &scriptedGateway{errs: map[string]error{
		CriterionCorrectness:       errors.New("down"),
		CriterionConciseness:       errors.New("down"),
		CriterionComprehensiveness: errors.New("down"),
		CriterionCoherence:         errors.New("down"),
	}}
	judge := NewJudge(gw, prompt.NewRegistry(), "")

	result, err := judge.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)

	assert.InDelta(t, float64(neutralScore), result.Overall, 1e-9)
}

func TestParseScoreClampsRange(t *testing.T) {
	s, err := parseScore(`{"score": 42, "feedback": "too generous"}`)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Score)

	s, err = parseScore(`{"score": -3, "feedback": "too harsh"}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Score)
}

func TestParseScoreStripsCodeFence(t *testing.T) {
	s, err := parseScore("```json\n{\"score\": 7, \"feedback\": \"fine\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Score)
	assert.Equal(t, "fine", s.Feedback)
}

func TestParseScoreRejectsGarbage(t *testing.T) {
	_, err := parseScore("the answer deserves a ten")
	assert.Error(t, err)
}
