package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("Hello {{name}}, you asked about {{topic}}.", map[string]string{
		"name":  "visitor",
		"topic": "Go",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello visitor, you asked about Go.", out)
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := Render("Hello {{name}}.", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestRenderNoVariables(t *testing.T) {
	out, err := Render("static text", nil)
	require.NoError(t, err)
	assert.Equal(t, "static text", out)
}

func TestRenderRepeatedVariable(t *testing.T) {
	out, err := Render("{{x}} and {{x}}", map[string]string{"x": "y"})
	require.NoError(t, err)
	assert.Equal(t, "y and y", out)
}

func TestExtractVariables(t *testing.T) {
	vars := ExtractVariables("{{a}} {{b}} {{a}}")
	assert.Equal(t, []string{"a", "b"}, vars)
}

func TestRegistryHasAllChatbotSlots(t *testing.T) {
	r := NewRegistry()
	for _, slot := range []string{"default", "enhanced", "custom", "langchain"} {
		p, err := r.ChatbotSlot(slot)
		require.NoError(t, err, "slot %s", slot)
		assert.NotEmpty(t, p)
	}
}

func TestRegistryUnknownName(t *testing.T) {
	_, err := NewRegistry().Get("nope/missing")
	assert.Error(t, err)
}

func TestJudgePromptRenders(t *testing.T) {
	r := NewRegistry()
	template := r.MustGet("eval/judge")

	assert.ElementsMatch(t, []string{"criterion", "criterion_definition"}, ExtractVariables(template))

	out, err := Render(template, map[string]string{
		"criterion":            "correctness",
		"criterion_definition": "Is it accurate?",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "correctness")
}

func TestPolishPromptsRegistered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"polish/review", "polish/quick", "polish/improve"} {
		p, err := r.Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, p)
	}
}
