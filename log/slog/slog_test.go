package slog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/postcard"
)

func TestLevelsAndFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", false)
	require.NoError(t, err)
	l = l.With(postcard.Fields{"run": "r1"})

	l.Debug("d", nil)
	l.Info("i", postcard.Fields{"z": 1, "a": 2})
	l.Warn("w", nil)
	l.Error("e", postcard.Fields{"name": "nested.bin"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "level=DEBUG")
	require.Contains(t, lines[1], "run=r1 a=2 z=1")
	require.Contains(t, lines[3], "level=ERROR")
	require.Contains(t, lines[3], "name=nested.bin")
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", true)
	require.NoError(t, err)
	l.Info("hidden", nil)
	l.Warn("shown", nil)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = New(&buf, "verbose", false)
	require.Error(t, err)
}
