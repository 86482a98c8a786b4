package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/jdmurray/portfolio-backend/internal/chatbot"
	"github.com/jdmurray/portfolio-backend/internal/eval"
	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/queue"
)

// EvaluationWorker runs the LLM judge over a finished conversation and
// records the scores.
type EvaluationWorker struct {
	store chatbot.Store
	judge *eval.Judge
}

func NewEvaluationWorker(store chatbot.Store, judge *eval.Judge) *EvaluationWorker {
	return &EvaluationWorker{store: store, judge: judge}
}

func (w *EvaluationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EvaluationRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	convID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		return fmt.Errorf("parse conversation ID: %w", err)
	}

	conv, err := w.store.GetConversation(ctx, convID)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	result, err := w.judge.Evaluate(ctx, conv.UserMessage, conv.BotResponse)
	if err != nil {
		return fmt.Errorf("evaluate conversation %s: %w", convID, err)
	}

	evaluation := &models.Evaluation{
		ConversationID:    convID,
		Correctness:       result.Scores[eval.CriterionCorrectness].Score,
		Conciseness:       result.Scores[eval.CriterionConciseness].Score,
		Comprehensiveness: result.Scores[eval.CriterionComprehensiveness].Score,
		Coherence:         result.Scores[eval.CriterionCoherence].Score,
		Overall:           result.Overall,
		Feedback:          combineFeedback(result),
	}
	if err := w.store.SaveEvaluation(ctx, evaluation); err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}

	slog.Info("conversation evaluated", "conversation_id", convID, "overall", result.Overall)
	return nil
}

func combineFeedback(result *eval.Result) string {
	var parts []string
	for _, criterion := range eval.AllCriteria {
		if fb := result.Scores[criterion].Feedback; fb != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", criterion, fb))
		}
	}
	return strings.Join(parts, " ")
}
