package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "tiflisi/internal/log"
)

type line struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

func parse(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()
	var out []line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		out = append(out, l)
	}
	return out
}

func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()

	applog.Info(nil, "cart.add", map[string]any{"line": "chokha-1-L-black"})
	applog.Audit(nil, "admin.orders.update", map[string]any{"order_id": "o1"})
	applog.Security(nil, "csrf.fail", nil)
	applog.Error(nil, "server.error", errors.New("boom"), nil)

	lines := parse(t, &buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "info", lines[0].Level)
	assert.Equal(t, "cart.add", lines[0].Action)
	assert.Equal(t, "chokha-1-L-black", lines[0].Fields["line"])
	assert.NotEmpty(t, lines[0].TS)

	assert.Equal(t, "audit", lines[1].Level)
	assert.Equal(t, "warn", lines[2].Level)
	assert.Nil(t, lines[2].Fields)

	assert.Equal(t, "error", lines[3].Level)
	assert.Equal(t, "boom", lines[3].Err)
}

func TestLevelFilterKeepsAudit(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()
	applog.SetLevel("error")
	defer applog.SetLevel("info")

	applog.Info(nil, "dropped", nil)
	applog.Audit(nil, "kept", nil)

	lines := parse(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0].Action)
}
