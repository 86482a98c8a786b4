package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
)

// Criteria scored by the judge, in the order they are reported.
const (
	CriterionCorrectness       = "correctness"
	CriterionConciseness       = "conciseness"
	CriterionComprehensiveness = "comprehensiveness"
	CriterionCoherence         = "coherence"
)

var criterionDefinitions = map[string]string{
	CriterionCorrectness:       "Is the answer factually accurate and free of fabricated claims?",
	CriterionConciseness:       "Does the answer avoid filler and stay focused on what was asked?",
	CriterionComprehensiveness: "Does the answer cover everything the question asked about?",
	CriterionCoherence:         "Is the answer well structured and easy to follow?",
}

// AllCriteria lists the scored dimensions in report order.
var AllCriteria = []string{
	CriterionCorrectness,
	CriterionConciseness,
	CriterionComprehensiveness,
	CriterionCoherence,
}

// neutralScore is recorded when a single criterion judgment cannot be
// obtained; one bad call must not sink or inflate the overall figure.
const neutralScore = 5

// CriterionScore is one judged dimension.
type CriterionScore struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Result is a full judgment of one question/answer pair.
type Result struct {
	Scores  map[string]CriterionScore `json:"scores"`
	Overall float64                   `json:"overall"`
}

// Judge scores chatbot answers with a second LLM, one call per criterion.
type Judge struct {
	gateway  llm.Gateway
	registry *prompt.Registry
	model    string
}

func NewJudge(gw llm.Gateway, registry *prompt.Registry, model string) *Judge {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Judge{gateway: gw, registry: registry, model: model}
}

// Evaluate fans out one judge call per criterion and averages the scores.
// Individual call failures are logged and replaced with the neutral score,
// so Evaluate itself never fails once the prompt template resolves.
func (j *Judge) Evaluate(ctx context.Context, question, answer string) (*Result, error) {
	template, err := j.registry.Get("eval/judge")
	if err != nil {
		return nil, err
	}

	result := &Result{Scores: make(map[string]CriterionScore, len(AllCriteria))}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, criterion := range AllCriteria {
		wg.Add(1)
		go func(criterion string) {
			defer wg.Done()

			score, err := j.judgeCriterion(ctx, template, criterion, question, answer)
			if err != nil {
				slog.Warn("criterion judgment failed", "criterion", criterion, "error", err)
				score = CriterionScore{Score: neutralScore, Feedback: "evaluation unavailable"}
			}

			mu.Lock()
			result.Scores[criterion] = score
			mu.Unlock()
		}(criterion)
	}
	wg.Wait()

	var sum float64
	for _, s := range result.Scores {
		sum += s.Score
	}
	result.Overall = sum / float64(len(result.Scores))
	return result, nil
}

func (j *Judge) judgeCriterion(ctx context.Context, template, criterion, question, answer string) (CriterionScore, error) {
	system, err := prompt.Render(template, map[string]string{
		"criterion":            criterion,
		"criterion_definition": criterionDefinitions[criterion],
	})
	if err != nil {
		return CriterionScore{}, fmt.Errorf("render judge prompt: %w", err)
	}

	resp, err := j.gateway.Chat(ctx, llm.ChatRequest{
		Model: j.model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: fmt.Sprintf("Question: %s\n\nAnswer being evaluated: %s", question, answer)},
		},
		Temperature: 0,
	})
	if err != nil {
		return CriterionScore{}, fmt.Errorf("judge %s: %w", criterion, err)
	}

	return parseScore(resp.Content)
}

func parseScore(content string) (CriterionScore, error) {
	var s CriterionScore
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &s); err != nil {
		return CriterionScore{}, fmt.Errorf("parse judge reply: %w", err)
	}
	s.Score = clampScore(s.Score)
	return s, nil
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
