package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stesla/tnscope/internal/config"
	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/telnet"
)

// newLogger logs to w at the configured level. With the auto format it
// writes for a person when w is a terminal and JSON otherwise.
func newLogger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "log level %q", cfg.LogLevel)
	}

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	if cfg.LogFormat == "console" || cfg.LogFormat == "auto" && tty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: !tty}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

var loggedEvents = []event.Name{
	telnet.EventNegotiation,
	telnet.EventOption,
	telnet.EventTN3270,
	telnet.EventTN5250,
	telnet.EventSwitchProtocol,
	telnet.EventHandoff,
	telnet.EventCharset,
}

type LogHandler struct {
	zerolog.Logger
	dispatcher event.Dispatcher
}

func (h *LogHandler) Register(d event.Dispatcher) {
	h.dispatcher = d
	for _, name := range loggedEvents {
		d.Listen(name, h)
	}
}

func (h *LogHandler) Unregister() {
	for _, name := range loggedEvents {
		h.dispatcher.RemoveListener(name, h)
	}
}

func (h *LogHandler) Listen(_ context.Context, ev event.Event) error {
	log := h.Trace().Str("event", string(ev.Name))
	switch t := ev.Data.(type) {
	case telnet.Negotiation:
		log.Int("frame", t.Frame).
			Stringer("src", t.Src).
			Str("command", telnet.CommandName(t.Cmd)).
			Str("option", telnet.LookupOption(t.Opt).Name)
	case telnet.OptionData:
		log.Int("frame", t.Frame).
			Str("option", telnet.LookupOption(t.Opt).Name).
			Stringer("performer", t.Performer).
			Bool("enabled", t.Enabled)
	case telnet.TN3270Data:
		log.Int("frame", t.Frame).
			Stringer("host", t.Session.Outbound).
			Int("model", t.Session.Model).
			Bool("extended", t.Session.Extended)
	case telnet.TN5250Data:
		log.Int("frame", t.Frame).Str("terminal", t.Terminal)
	case telnet.SwitchData:
		log.Int("frame", t.Frame).Str("protocol", t.Protocol).Str("via", t.Via)
	case telnet.HandoffData:
		log.Int("frame", t.Frame).Str("protocol", t.Protocol).Int("bytes", len(t.Data))
	case telnet.CharsetData:
		log.Int("frame", t.Frame).Str("charset", t.Name).Bool("supported", t.Encoding != nil)
	default:
		log.Any("data", t)
	}
	log.Send()
	return nil
}
