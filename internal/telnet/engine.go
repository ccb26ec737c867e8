package telnet

import (
	"context"
	"net/netip"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/tn3270"
	"github.com/stesla/tnscope/internal/wire"
)

// OneMoreSegment is the Need value asking the host for the next segment in
// the same direction.
const OneMoreSegment = 0x0fffffff

// Packet is one segment of a TELNET connection.
type Packet struct {
	Frame      int
	Src, Dst   netip.AddrPort
	Data       []byte
	Reassemble bool
}

// Result is the outcome of decoding one packet. When Need is non-zero the
// host should keep Data[NeedAt:], append the next segment to it and decode
// the concatenation as a fresh packet. Records only cover Data[:NeedAt].
type Result struct {
	Records []dissect.Record
	Need    int
	NeedAt  int
}

// Engine decodes TELNET packets. It holds nothing per connection: that
// state lives in the Session passed to Decode.
type Engine struct {
	dispatcher event.Dispatcher
	correlator *Correlator
}

type EngineOption func(*Engine)

func WithDispatcher(d event.Dispatcher) EngineOption {
	return func(e *Engine) { e.dispatcher = d }
}

// WithCorrelator shares c with other engines, so that vMotion pairs split
// across engines can still be matched.
func WithCorrelator(c *Correlator) EngineOption {
	return func(e *Engine) { e.correlator = c }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		e.dispatcher = event.NewDispatcher()
	}
	if e.correlator == nil {
		e.correlator = NewCorrelator()
	}
	return e
}

func (e *Engine) Dispatcher() event.Dispatcher { return e.dispatcher }

func (e *Engine) Correlator() *Correlator { return e.correlator }

// Listener errors stay with the listener; decoding goes on regardless.
func (e *Engine) dispatch(ctx context.Context, ev event.Event) {
	_ = e.dispatcher.Dispatch(ctx, ev)
}

type packetDecoder struct {
	ctx  context.Context
	e    *Engine
	sess *Session
	pkt  *Packet
	t    dissect.Tree
	res  Result
}

func (e *Engine) Decode(ctx context.Context, sess *Session, pkt Packet) Result {
	p := &packetDecoder{ctx: ctx, e: e, sess: sess, pkt: &pkt, t: dissect.NewTree()}
	p.decode()
	p.res.Records = p.t.Records()
	return p.res
}

func (p *packetDecoder) need(at int) {
	p.res.Need = OneMoreSegment
	p.res.NeedAt = at
}

func (p *packetDecoder) decode() {
	buf := p.pkt.Data
	if frame, ok := p.sess.TLSAfter(); ok && p.pkt.Frame > frame {
		p.t.Data(0, "telnet.tls", "TLS", buf)
		p.e.handoff(p.ctx, p.pkt, "tls", buf)
		return
	}

	off, end := 0, len(buf)
	for off < end {
		if buf[off] == IAC && off+1 < end && buf[off+1] != IAC {
			n := p.command(off)
			if n == 0 {
				return
			}
			off += n
			continue
		}

		var n int
		switch {
		case p.sess.Mode == ModeTN3270 && p.sess.TN3270 != nil, p.sess.Mode == ModeTN5250:
			n = p.record(off)
		default:
			n = p.data(off)
		}
		if n == 0 {
			return
		}
		off += n
	}
}

// data decodes the NVT data run at off and returns its length.
func (p *packetDecoder) data(off int) int {
	buf := p.pkt.Data
	end := len(buf)
	stop := FindUnescapedIAC(buf, off, end)
	if stop < 0 {
		stop = end
		if danglingIAC(buf, off, end) {
			if p.pkt.Reassemble {
				if stop-1 > off {
					p.dataRun(off, stop-1)
				}
				p.need(stop - 1)
				return 0
			}
			stop--
			if stop > off {
				p.dataRun(off, stop)
			}
			p.t.Diag(dissect.SeverityWarn, stop, 1, "Command truncated")
			return stop + 1 - off
		}
	}
	p.dataRun(off, stop)
	return stop - off
}

func (p *packetDecoder) dataRun(off, stop int) {
	text, _ := unescape(p.pkt.Data[off:stop])
	p.t.Field(off, stop-off, "telnet.data", string(text), "Data: %q", text)
}

// record decodes the TN3270 or TN5250 record starting at off, which ends
// at the next unescaped IAC. A record not followed by IAC EOR is decoded
// anyway, or held for reassembly when it runs to the end of the packet.
func (p *packetDecoder) record(off int) int {
	buf := p.pkt.Data
	end := len(buf)
	stop := FindUnescapedIAC(buf, off, end)
	terminated := stop >= 0 && buf[stop+1] == EOR
	if stop < 0 {
		if p.pkt.Reassemble {
			p.need(off)
			return 0
		}
		stop = end
	}

	rec, removed := unescape(buf[off:stop])
	pos := positions(buf[off:stop], removed)
	if p.sess.Mode == ModeTN5250 {
		p.t.Remap(off, pos).Data(0, "tn5250.record", "TN5250 Record", rec)
		p.e.handoff(p.ctx, p.pkt, "tn5250", rec)
	} else {
		sess := p.sess.TN3270
		t := p.t.Text(off, stop-off, "TN3270 Record (%s)", sess.Direction(p.pkt.Src))
		tn3270.Decode(sess, sess.Direction(p.pkt.Src), rec, t.Remap(off, pos))
	}
	if !terminated {
		p.t.Diag(dissect.SeverityNote, off, stop-off, "Record not terminated by IAC EOR")
	}
	return stop - off
}

// command decodes the command at off, which holds an IAC, and returns the
// bytes it used. Zero means decoding stopped, for reassembly or otherwise.
func (p *packetDecoder) command(off int) int {
	buf := p.pkt.Data
	cmd := buf[off+1]
	switch cmd {
	case WILL, WONT, DO, DONT:
		return p.negotiation(off, cmd)
	case SB:
		return p.suboption(off)
	}
	if name, ok := commandNames[cmd]; ok {
		ev := p.t.Event(off, 2, "%s", name)
		ev.Field(off+1, 1, "telnet.cmd", cmd, "Command: %s", name)
		return 2
	}
	p.t.Event(off, 2, "<unknown command>").
		Diag(dissect.SeverityWarn, off+1, 1, "Unknown command 0x%02x", cmd)
	return 2
}

func (p *packetDecoder) negotiation(off int, cmd byte) int {
	buf := p.pkt.Data
	name := negotiationNames[cmd]
	if off+2 >= len(buf) {
		if p.pkt.Reassemble {
			p.need(off)
			return 0
		}
		ev := p.t.Event(off, 2, "%s", name)
		ev.Diag(dissect.SeverityWarn, off, 2, "Negotiation truncated")
		return 2
	}

	code := buf[off+2]
	opt := LookupOption(code)
	ev := p.t.Event(off, 3, "%s %s", name, opt.Name)
	ev.Field(off+1, 1, "telnet.cmd", cmd, "Command: %s", name)
	ev.Field(off+2, 1, "telnet.option", code, "Option: %s (%d)", opt.Name, code)

	src, dst := p.pkt.Src, p.pkt.Dst
	p.e.dispatch(p.ctx, event.Event{Name: EventNegotiation, Data: Negotiation{
		Frame: p.pkt.Frame, Src: src, Dst: dst, Cmd: cmd, Opt: code,
	}})
	if performer, changed := p.sess.options.receive(cmd, code, src, dst); changed {
		p.e.dispatch(p.ctx, event.Event{Name: EventOption, Data: OptionData{
			Frame:     p.pkt.Frame,
			Opt:       code,
			Performer: performer,
			Enabled:   p.sess.options.enabled(code, performer),
		}})
	}
	return 3
}

func (p *packetDecoder) suboption(off int) int {
	buf := p.pkt.Data
	end := len(buf)
	if off+2 >= end {
		if p.pkt.Reassemble {
			p.need(off)
			return 0
		}
		p.t.Event(off, end-off, "Suboption").
			Diag(dissect.SeverityWarn, off, end-off, "Suboption truncated")
		return end - off
	}

	code := buf[off+2]
	opt := LookupOption(code)
	bodyStart := off + 3
	stop := FindUnescapedIAC(buf, bodyStart, end)
	terminated := stop >= 0
	if !terminated {
		if p.pkt.Reassemble {
			p.need(off)
			return 0
		}
		stop = end
		if danglingIAC(buf, bodyStart, end) {
			stop--
		}
	}
	used := end - off
	if terminated {
		// The command after IAC is taken to be SE.
		used = stop + 2 - off
	}

	ev := p.t.Event(off, used, "Suboption %s", opt.Name)
	ev.Field(off+2, 1, "telnet.subcmd.option", code, "Option: %s (%d)", opt.Name, code)
	p.body(ev, opt, bodyStart, stop)
	if terminated {
		ev.Text(stop, 2, "Suboption End")
	} else {
		ev.Diag(dissect.SeverityWarn, off, used, "Suboption not terminated")
	}
	return used
}

// body decodes buf[start:stop], the escaped suboption body. Records from
// the decoder are placed at their unescaped offsets from start.
func (p *packetDecoder) body(t dissect.Tree, opt Option, start, stop int) {
	raw := p.pkt.Data[start:stop]
	body, removed, err := Unescape(raw)
	if err != nil {
		t.Data(start, "telnet.subcmd.data", "Option data", raw)
		t.Diag(dissect.SeverityWarn, start, len(raw), "Suboption too long to unescape: %d bytes", len(raw))
		return
	}
	if msg, ok := opt.check(len(body)); !ok {
		t.Diag(dissect.SeverityWarn, start, len(raw), "%s", msg)
		if len(raw) > 0 {
			t.Data(start, "telnet.subcmd.data", "Option data", raw)
		}
		return
	}
	if !opt.HasDecoder() {
		if len(raw) > 0 {
			t.Data(start, "telnet.subcmd.data", "Option data", raw)
		}
		return
	}
	d := &subDecoder{
		ctx:  p.ctx,
		e:    p.e,
		sess: p.sess,
		pkt:  p.pkt,
		opt:  opt,
		t:    t.Remap(start, positions(raw, removed)),
		c:    wire.New(body),
	}
	opt.decode(d)
}

// startTN3270 puts the session in TN3270 mode. The endpoints and model of
// an existing TN3270 session were fixed when it was created; a later
// negotiation can only add TN3270E.
func (e *Engine) startTN3270(ctx context.Context, sess *Session, pkt *Packet, outbound, inbound netip.AddrPort, extended bool, model int) {
	s := sess.TN3270
	if s == nil {
		s = sess.SetTN3270(outbound, inbound, extended, model)
	} else {
		sess.Mode = ModeTN3270
		s.Extended = s.Extended || extended
	}
	e.dispatch(ctx, event.Event{Name: EventTN3270, Data: TN3270Data{Frame: pkt.Frame, Session: s}})
}

func (e *Engine) startTN5250(ctx context.Context, sess *Session, pkt *Packet, terminal string) {
	sess.Mode = ModeTN5250
	e.dispatch(ctx, event.Event{Name: EventTN5250, Data: TN5250Data{Frame: pkt.Frame, Terminal: terminal}})
}

// switchToTLS marks everything after pkt as TLS. Only the first call per
// session has any effect.
func (e *Engine) switchToTLS(ctx context.Context, sess *Session, pkt *Packet, via string) {
	if sess.tlsSwitched {
		return
	}
	sess.tlsSwitched = true
	sess.tlsFrame = pkt.Frame
	e.dispatch(ctx, event.Event{Name: EventSwitchProtocol, Data: SwitchData{Frame: pkt.Frame, Protocol: "tls", Via: via}})
}

func (e *Engine) handoff(ctx context.Context, pkt *Packet, protocol string, data []byte) {
	e.dispatch(ctx, event.Event{Name: EventHandoff, Data: HandoffData{Frame: pkt.Frame, Protocol: protocol, Data: data}})
}
