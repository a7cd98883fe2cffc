package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStart(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	def := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, def, parseStart("", def, log))
	assert.True(t, parseStart("2025-03-04T08:00:00Z", def, log).Equal(time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)))
	assert.True(t, parseStart("2025-03-04", def, log).Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.Local)))
}
