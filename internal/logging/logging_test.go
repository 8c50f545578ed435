package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ calculation.Logger = (*Logger)(nil)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestConsoleLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", &buf)

	l.Debugf("hidden %d", 1)
	l.Infof("scenario %q recalculated", "Base")
	l.Warnf("goal not reached within %d months", 480)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `scenario "Base" recalculated`)
	assert.Contains(t, out, "goal not reached within 480 months")
	assert.Contains(t, out, "WRN")
}

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON("debug", &buf).With("scenario", "Base")

	l.Errorf("store failed: %s", "disk full")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Base", entry["scenario"])
	assert.Equal(t, "store failed: disk full", entry["message"])
}

func TestLogger_WithCalculator(t *testing.T) {
	var buf bytes.Buffer
	calc := calculation.NewScenarioCalculator()
	calc.SetLogger(New("debug", &buf))

	_, err := calc.Calculate(domain.NewScenario("Empty", time.Time{}), calculation.Inputs{})
	require.ErrorIs(t, err, calculation.ErrIncompleteScenario)
	assert.Contains(t, buf.String(), "no monthly expenses")
}
