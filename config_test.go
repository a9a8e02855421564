package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sequencer.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "250ms", cfg.Traverse.Pace)
	pace, err := cfg.PaceDuration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, pace)

	budget, err := cfg.TrailTimeout()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, budget)
	assert.False(t, cfg.Order.Brace)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[tolerance]
precision = 0.001

[weights]
inherit_anchor = "start"
angled_end_bonus = 0.3

[refine]
passes = 2

[traverse]
pace = "100ms"

[order]
brace = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.Tolerance.Precision)
	assert.Equal(t, DefaultHorizontalZ, cfg.Tolerance.HorizontalZ, "unset keys keep defaults")
	assert.Equal(t, AnchorStart, cfg.Weights.InheritAnchor)
	assert.Equal(t, 0.3, cfg.Weights.AngledEndBonus)
	assert.Equal(t, 0.1, cfg.Weights.VerticalStartBonus)
	assert.Equal(t, 40.0, cfg.Merge.MaxSpan)
	assert.Equal(t, 2, cfg.Refine.Passes)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	pace, err := cfg.PaceDuration()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, pace)
	assert.True(t, cfg.Order.Brace)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero precision", "[tolerance]\nprecision = 0.0\n"},
		{"unknown anchor", "[weights]\ninherit_anchor = \"middle\"\n"},
		{"negative passes", "[refine]\npasses = -1\n"},
		{"bad pace", "[traverse]\npace = \"soon\"\n"},
		{"negative shutdown", "[server]\nshutdown_timeout = \"-1s\"\n"},
		{"zero span", "[merge]\nmax_span = 0.0\n"},
		{"zero body limit", "[server]\nmax_body_bytes = 0\n"},
		{"negative body limit", "[server]\nmax_body_bytes = -1\n"},
		{"bad trail timeout", "[traverse]\ntrail_timeout = \"forever\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "[tolerance\nprecision = "))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
