package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stesla/tnscope/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
# client reports its window size in two segments
1 10.0.0.2:54321 10.0.0.1:23 fffa1f0050
2 10.0.0.2:54321 10.0.0.1:23 0018fff0
3 10.0.0.1:23 10.0.0.2:54321 6c6f67696e3a20
4 10.0.0.2:54321 10.0.0.1:80 474554
`

func TestSessionSummary(t *testing.T) {
	var out bytes.Buffer
	s := newSession(config.Default(), zerolog.Nop(), &out)
	defer s.Close()

	require.NoError(t, s.run(context.Background(), strings.NewReader(script)))
	text := out.String()
	assert.Contains(t, text, "[5 bytes held]")
	assert.Contains(t, text, "Suboption Negotiate About Window Size")
	assert.Contains(t, text, "Total: 3 segments.")
	assert.Contains(t, text, "Total: 1 conversations.")
	assert.Contains(t, text, "telnet")
	assert.NotContains(t, text, "10.0.0.1:80")
}

func TestSessionVerbose(t *testing.T) {
	var out bytes.Buffer
	s := newSession(config.Default(), zerolog.Nop(), &out)
	defer s.Close()
	s.verbose = true

	require.NoError(t, s.run(context.Background(), strings.NewReader(script)))
	text := out.String()
	assert.Contains(t, text, "Frame 2, conversation 1: 10.0.0.2:54321 -> 10.0.0.1:23, 9 B")
	assert.Contains(t, text, "Width: 80")
	assert.Contains(t, text, "Height: 24")
}

func TestSessionBadScript(t *testing.T) {
	s := newSession(config.Default(), zerolog.Nop(), &bytes.Buffer{})
	defer s.Close()
	err := s.run(context.Background(), strings.NewReader("1 nowhere 10.0.0.1:23 ff"))
	require.ErrorContains(t, err, "read capture: line 1")
}

func TestHandoffs(t *testing.T) {
	require.Equal(t, "", handoffs(map[string]int{}))
	require.Equal(t, "kerberos=1, tls=2", handoffs(map[string]int{"tls": 2, "kerberos": 1}))
}

func TestPrintOptions(t *testing.T) {
	var out bytes.Buffer
	printOptions(&out)
	text := out.String()
	assert.Contains(t, text, "Negotiate About Window Size")
	assert.Contains(t, text, "VMware Serial Port Proxy")
	assert.Contains(t, text, "fixed")
}
