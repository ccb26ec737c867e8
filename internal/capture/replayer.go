package capture

import (
	"context"
	"net/netip"
	"slices"

	"github.com/rs/zerolog"
	"github.com/stesla/tnscope/internal/config"
	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/telnet"
)

// Output is what one segment decoded to. Records are positioned in Data,
// which starts with any bytes held back from earlier segments.
type Output struct {
	Frame    int
	Conv     *Conversation
	Src, Dst netip.AddrPort
	Data     []byte
	Records  []dissect.Record
	Summary  string
	Held     int
}

// Replayer feeds segments to a telnet engine the way a capture tool would:
// one session per conversation, and bytes held back whenever the engine
// asks for more.
type Replayer struct {
	cfg    *config.Config
	engine *telnet.Engine
	table  *Table
	logger zerolog.Logger

	current *Conversation
}

func NewReplayer(cfg *config.Config, logger zerolog.Logger, opts ...telnet.EngineOption) *Replayer {
	r := &Replayer{
		cfg:    cfg,
		engine: telnet.NewEngine(opts...),
		table:  NewTable(),
		logger: logger,
	}
	d := r.engine.Dispatcher()
	d.ListenFunc(telnet.EventTN3270, r.handleEvent)
	d.ListenFunc(telnet.EventTN5250, r.handleEvent)
	d.ListenFunc(telnet.EventSwitchProtocol, r.handleEvent)
	d.ListenFunc(telnet.EventHandoff, r.handleEvent)
	return r
}

func (r *Replayer) Engine() *telnet.Engine { return r.engine }

func (r *Replayer) Conversations() []*Conversation { return r.table.All() }

func (r *Replayer) handleEvent(_ context.Context, ev event.Event) error {
	c := r.current
	if c == nil {
		return nil
	}
	switch t := ev.Data.(type) {
	case telnet.TN3270Data:
		c.Protocol = "tn3270"
		if t.Session.Extended {
			c.Protocol = "tn3270e"
		}
	case telnet.TN5250Data:
		c.Protocol = "tn5250"
	case telnet.SwitchData:
		c.Protocol = t.Protocol
		r.logger.Info().Int("conv", c.ID).Int("frame", t.Frame).Str("via", t.Via).Msgf("switching to %s", t.Protocol)
	case telnet.HandoffData:
		c.Handoffs[t.Protocol]++
	}
	return nil
}

// Feed decodes one segment. It reports false for segments on ports that do
// not carry TELNET.
func (r *Replayer) Feed(ctx context.Context, seg Segment) (Output, bool) {
	if !r.cfg.IsTelnetPort(seg.Src.Port()) && !r.cfg.IsTelnetPort(seg.Dst.Port()) {
		r.logger.Trace().Int("frame", seg.Frame).Msg("not telnet")
		return Output{}, false
	}

	c, created := r.table.FindOrCreate(seg.Src, seg.Dst)
	if created {
		r.logger.Debug().Int("conv", c.ID).Stringer("a", c.A).Stringer("b", c.B).Msg("new conversation")
		r.startTN3270(c, seg)
	}
	c.Frames++
	c.Bytes += uint64(len(seg.Data))
	c.lastFrame = seg.Frame

	data := seg.Data
	if held := c.pending[seg.Src]; len(held) > 0 {
		data = append(held, seg.Data...)
		delete(c.pending, seg.Src)
	}

	r.current = c
	res := r.engine.Decode(ctx, c.Session, telnet.Packet{
		Frame:      seg.Frame,
		Src:        seg.Src,
		Dst:        seg.Dst,
		Data:       data,
		Reassemble: r.cfg.Reassemble,
	})
	r.current = nil

	out := Output{
		Frame:   seg.Frame,
		Conv:    c,
		Src:     seg.Src,
		Dst:     seg.Dst,
		Data:    data,
		Records: res.Records,
		Summary: dissect.Summary(res.Records, r.cfg.SummaryItems),
	}
	if res.Need != 0 {
		c.pending[seg.Src] = slices.Clone(data[res.NeedAt:])
		out.Held = len(data) - res.NeedAt
		r.logger.Trace().Int("conv", c.ID).Int("frame", seg.Frame).Int("held", out.Held).Msg("reassembly requested")
	}

	log := r.logger.Debug().Int("conv", c.ID).Int("frame", seg.Frame).Int("records", len(res.Records))
	log.Str("summary", out.Summary).Msg("decoded")
	for _, d := range dissect.Diagnostics(res.Records) {
		if d.Severity >= dissect.SeverityWarn {
			r.logger.Debug().Int("conv", c.ID).Int("frame", seg.Frame).Int("offset", d.Offset).
				Str("severity", d.Severity.String()).Msg(d.Label)
		}
	}
	return out, true
}

// startTN3270 puts a conversation on a configured TN3270 port straight
// into TN3270 mode, with the side on that port as the host.
func (r *Replayer) startTN3270(c *Conversation, seg Segment) {
	host, terminal := seg.Dst, seg.Src
	switch {
	case r.cfg.IsTN3270Port(seg.Dst.Port()):
	case r.cfg.IsTN3270Port(seg.Src.Port()):
		host, terminal = seg.Src, seg.Dst
	default:
		return
	}
	c.Session.SetTN3270(host, terminal, false, r.cfg.TN3270Model)
	c.Protocol = "tn3270"
	r.logger.Debug().Int("conv", c.ID).Stringer("host", host).Msg("tn3270 port")
}

// Replay feeds every segment in order and returns the outputs of those
// that were decoded. Bytes still held at the end are decoded without
// reassembly so nothing is lost.
func (r *Replayer) Replay(ctx context.Context, segs []Segment) []Output {
	var outs []Output
	for _, seg := range segs {
		if out, ok := r.Feed(ctx, seg); ok {
			outs = append(outs, out)
		}
	}
	return append(outs, r.Flush(ctx)...)
}

// Flush decodes whatever is still held for reassembly.
func (r *Replayer) Flush(ctx context.Context) []Output {
	var outs []Output
	for _, c := range r.table.All() {
		for _, src := range []netip.AddrPort{c.A, c.B} {
			held := c.pending[src]
			if len(held) == 0 {
				continue
			}
			delete(c.pending, src)
			dst := c.A
			if src == c.A {
				dst = c.B
			}
			r.current = c
			res := r.engine.Decode(ctx, c.Session, telnet.Packet{Frame: c.lastFrame, Src: src, Dst: dst, Data: held})
			r.current = nil
			r.logger.Debug().Int("conv", c.ID).Int("bytes", len(held)).Msg("flushed held bytes")
			outs = append(outs, Output{
				Frame:   c.lastFrame,
				Conv:    c,
				Src:     src,
				Dst:     dst,
				Data:    held,
				Records: res.Records,
				Summary: dissect.Summary(res.Records, r.cfg.SummaryItems),
			})
		}
	}
	return outs
}
