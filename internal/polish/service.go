package polish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
)

// minReviewLength is the smallest visible-character count worth sending
// to the model; shorter texts get a neutral review without an LLM call.
const minReviewLength = 10

// Suggestion is one proposed edit from the reviewer.
type Suggestion struct {
	Type     string `json:"type"`
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

// Review is the full assessment of a piece of content.
type Review struct {
	Suggestions  []Suggestion `json:"suggestions"`
	OverallScore float64      `json:"overall_score"`
	Summary      string       `json:"summary"`
	WordCount    int          `json:"word_count"`
	Readability  float64      `json:"readability"`
}

// Service reviews and rewrites draft content with an LLM editor.
type Service struct {
	gateway  llm.Gateway
	registry *prompt.Registry
	model    string
}

func NewService(gw llm.Gateway, registry *prompt.Registry, model string) *Service {
	return &Service{gateway: gw, registry: registry, model: model}
}

// Polish reviews the text and returns edit suggestions, an overall score,
// and a readability figure. contentType steers the editor's register
// ("blog post", "project description", and so on).
func (s *Service) Polish(ctx context.Context, text, contentType string) (*Review, error) {
	plain := stripMarkup(text)
	readability := ReadabilityScore(plain)
	wordCount := len(strings.Fields(plain))

	if visibleLength(plain) < minReviewLength {
		return neutralReview("Text is too short to review meaningfully.", wordCount, readability), nil
	}

	if contentType == "" {
		contentType = "text"
	}
	system, err := prompt.Render(s.registry.MustGet("polish/review"), map[string]string{
		"content_type": contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("render review prompt: %w", err)
	}

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		slog.Warn("polish review call failed", "error", err)
		return neutralReview("Automated review is unavailable right now.", wordCount, readability), nil
	}

	var review Review
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &review); err != nil {
		slog.Warn("polish review reply unparseable", "error", err)
		return neutralReview("Automated review is unavailable right now.", wordCount, readability), nil
	}
	if review.Suggestions == nil {
		review.Suggestions = []Suggestion{}
	}
	if review.OverallScore < 0 {
		review.OverallScore = 0
	}
	if review.OverallScore > 100 {
		review.OverallScore = 100
	}
	review.WordCount = wordCount
	review.Readability = readability
	return &review, nil
}

// neutralReview is returned whenever the model cannot weigh in, so callers
// always get the computed word count and readability.
func neutralReview(summary string, wordCount int, readability float64) *Review {
	return &Review{
		Suggestions:  []Suggestion{},
		OverallScore: 50,
		Summary:      summary,
		WordCount:    wordCount,
		Readability:  readability,
	}
}

// QuickSuggestions returns up to three short improvement tips. LLM failures
// degrade to an empty list.
func (s *Service) QuickSuggestions(ctx context.Context, text string) ([]string, error) {
	if visibleLength(text) < minReviewLength {
		return []string{}, nil
	}

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: s.registry.MustGet("polish/quick")},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		slog.Warn("quick suggestions call failed", "error", err)
		return []string{}, nil
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &out); err != nil {
		slog.Warn("unparseable suggestions reply", "error", err)
		return []string{}, nil
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out.Suggestions, nil
}

// ImproveSelection rewrites the selected passage in context. LLM failures
// degrade to the original selection.
func (s *Service) ImproveSelection(ctx context.Context, fullText, selection string) (string, error) {
	if strings.TrimSpace(selection) == "" {
		return "", fmt.Errorf("empty selection")
	}

	user := fmt.Sprintf("Full text:\n%s\n\nSelected passage to improve:\n%s", fullText, selection)
	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: s.registry.MustGet("polish/improve")},
			{Role: "user", Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		slog.Warn("improve selection call failed", "error", err)
		return selection, nil
	}

	var out struct {
		Improved string `json:"improved"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &out); err != nil {
		slog.Warn("unparseable improvement reply", "error", err)
		return selection, nil
	}
	if strings.TrimSpace(out.Improved) == "" {
		return selection, nil
	}
	return out.Improved, nil
}

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]+>`)
	markdownSymbols = strings.NewReplacer("**", "", "__", "", "`", "", "~~", "", "# ", "", "## ", "", "### ", "")
)

// stripMarkup removes HTML tags and common markdown decoration so word and
// readability figures reflect the visible prose.
func stripMarkup(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, " ")
	return markdownSymbols.Replace(text)
}

func visibleLength(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
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
