package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", EnvProduction} {
		logger := NewLogger(env)
		assert.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(0))
	}
}
