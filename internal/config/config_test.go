package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsMissingVars(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	cfg.Database.URL = "postgres://localhost/portfolio"
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.AdminPassword = "hunter2"
	assert.NoError(t, cfg.Validate())
}

func TestValidateWorkerNeedsProviderKey(t *testing.T) {
	cfg := &Config{}
	cfg.Database.URL = "postgres://localhost/portfolio"

	err := cfg.ValidateWorker()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY or ANTHROPIC_API_KEY")

	cfg.LLM.AnthropicKey = "sk-ant-test"
	assert.NoError(t, cfg.ValidateWorker())
}
