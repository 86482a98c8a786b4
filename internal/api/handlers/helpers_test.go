package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.org", "x+tag@sub.domain.io"}
	for _, e := range valid {
		assert.True(t, validEmail(e), e)
	}

	invalid := []string{"", "plain", "@nodomain.com", "user@", "user@nodot"}
	for _, e := range invalid {
		assert.False(t, validEmail(e), e)
	}
}
