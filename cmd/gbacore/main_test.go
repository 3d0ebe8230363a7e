package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevelKnownNames(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, err := parseLevel(name)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseLevelUnknownNameErrors(t *testing.T) {
	_, err := parseLevel("trace")
	assert.Error(t, err)
}
