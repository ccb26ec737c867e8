package main

import (
	"bytes"
	"context"
	"net/netip"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stesla/tnscope/internal/config"
	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/telnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var tests = []struct {
		format string
		json   bool
	}{
		{"json", true},
		{"auto", true},
		{"console", false},
	}
	for i, test := range tests {
		cfg := config.Default()
		cfg.LogFormat = test.format
		var buf bytes.Buffer
		logger, err := newLogger(cfg, &buf)
		require.NoError(t, err, i)
		logger.Info().Msg("hello")
		require.Equal(t, test.json, bytes.HasPrefix(buf.Bytes(), []byte("{")), i)
		require.Contains(t, buf.String(), "hello", i)
	}

	cfg := config.Default()
	cfg.LogLevel = "loud"
	_, err := newLogger(cfg, &bytes.Buffer{})
	require.ErrorContains(t, err, `log level "loud"`)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	d := event.NewDispatcher()
	h := &LogHandler{Logger: zerolog.New(&buf).Level(zerolog.TraceLevel)}
	h.Register(d)

	host := netip.MustParseAddrPort("10.0.0.1:23")
	err := d.Dispatch(context.Background(), event.Event{
		Name: telnet.EventNegotiation,
		Data: telnet.Negotiation{Frame: 3, Src: host, Cmd: telnet.DO, Opt: telnet.NAWS},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"event":"telnet.event.negotiation"`)
	assert.Contains(t, out, `"command":"Do"`)
	assert.Contains(t, out, `"option":"Negotiate About Window Size"`)
	assert.Contains(t, out, `"src":"10.0.0.1:23"`)

	h.Unregister()
	buf.Reset()
	d.Dispatch(context.Background(), event.Event{Name: telnet.EventSwitchProtocol, Data: telnet.SwitchData{Protocol: "tls"}})
	require.Empty(t, buf.String())
}
