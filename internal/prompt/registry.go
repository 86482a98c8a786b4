package prompt

import "fmt"

// Registry holds the built-in prompt texts keyed by name. DB-stored templates
// (see Service) override the chatbot slots; operation prompts for polishing
// and evaluation are registry-only.
type Registry struct {
	prompts map[string]string
}

// Chatbot slot prompts. The "default" slot is what visitors get unless an
// active DB template overrides it.
const (
	chatbotDefault = `You are the assistant on a personal portfolio website. You answer visitor
questions about the site owner: their background, skills, projects, work
history, and writing. Ground every answer in the reference material provided
below; when the material does not cover a question, say so briefly instead of
guessing. Keep answers short and conversational.

Reply with ONLY a JSON object:
{"answer": "your answer", "on_topic": true|false, "confidence": 0.0-1.0}

Set on_topic to false and keep the answer to a polite redirect when the
question is unrelated to the site owner or their work.`

	chatbotEnhanced = `You are the assistant on a personal portfolio website, speaking in the site
owner's voice: direct, curious, and a little informal. Answer visitor
questions about the owner's background, projects, and writing using the
reference material provided below. Prefer concrete details (project names,
technologies, dates) over generalities. If the material does not cover a
question, say what you do know and note the gap.

Reply with ONLY a JSON object:
{"answer": "your answer", "on_topic": true|false, "confidence": 0.0-1.0}`

	chatbotCustom = `You are the assistant on a personal portfolio website. Follow the curated
Q&A examples and reference material provided below as the source of truth.

Reply with ONLY a JSON object:
{"answer": "your answer", "on_topic": true|false, "confidence": 0.0-1.0}`

	chatbotLangchain = `You are the assistant on a personal portfolio website. Retrieved document
snippets are provided below; treat them as the primary source and cite which
snippet supports each claim when asked.

Reply with ONLY a JSON object:
{"answer": "your answer", "on_topic": true|false, "confidence": 0.0-1.0}`
)

// Content polishing prompts.
const (
	polishPrompt = `You are an experienced writing editor reviewing a {{content_type}}.
Analyze the text and return ONLY a JSON object:
{
  "suggestions": [{"type": "clarity|grammar|structure|tone", "original": "...", "improved": "...", "reason": "..."}],
  "overall_score": 0-100,
  "summary": "one-paragraph assessment"
}
Limit yourself to the five most impactful suggestions.`

	quickSuggestionsPrompt = `You are a writing assistant. Give up to three short, concrete suggestions
for improving the text. Return ONLY a JSON object:
{"suggestions": ["...", "...", "..."]}`

	improveSelectionPrompt = `You are a writing assistant. Rewrite the selected passage so it reads
better in its surrounding context. Preserve the author's meaning and voice.
Return ONLY a JSON object: {"improved": "rewritten passage"}`
)

// Judge prompt shared by the evaluation criteria; {{criterion}} and
// {{criterion_definition}} are filled per call.
const judgePrompt = `You are evaluating an AI assistant's answer for {{criterion}}:
{{criterion_definition}}

Score from 1 (very poor) to 10 (excellent).
Reply with ONLY a JSON object: {"score": 1-10, "feedback": "one sentence"}`

func NewRegistry() *Registry {
	return &Registry{
		prompts: map[string]string{
			"chatbot/default":   chatbotDefault,
			"chatbot/enhanced":  chatbotEnhanced,
			"chatbot/custom":    chatbotCustom,
			"chatbot/langchain": chatbotLangchain,
			"polish/review":     polishPrompt,
			"polish/quick":      quickSuggestionsPrompt,
			"polish/improve":    improveSelectionPrompt,
			"eval/judge":        judgePrompt,
		},
	}
}

// Get returns the registered prompt text for name.
func (r *Registry) Get(name string) (string, error) {
	p, ok := r.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not registered", name)
	}
	return p, nil
}

// MustGet panics on unknown names; use only for names the caller hardcodes.
func (r *Registry) MustGet(name string) string {
	p, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// ChatbotSlot returns the built-in prompt for a chatbot slot name.
func (r *Registry) ChatbotSlot(slot string) (string, error) {
	return r.Get("chatbot/" + slot)
}
