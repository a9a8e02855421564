package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	l := quietLogger()
	ctx := withLogger(context.Background(), l)
	assert.Same(t, l, loggerFromContext(ctx))
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	newProgress(l).done("weights assigned", "segments", 12)

	out := buf.String()
	assert.Contains(t, out, "weights assigned")
	assert.Contains(t, out, "segments=12")
	assert.Contains(t, out, "elapsed=")
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(log.DebugLevel)
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
