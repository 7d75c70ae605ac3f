package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, logrus.DebugLevel, NewLogger().GetLevel())

	t.Setenv("LOG_LEVEL", "not-a-level")
	assert.Equal(t, logrus.InfoLevel, NewLogger().GetLevel())

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, logrus.InfoLevel, NewLogger().GetLevel())
}
