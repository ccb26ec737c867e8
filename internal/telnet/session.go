package telnet

import (
	"net/netip"

	"github.com/stesla/tnscope/internal/tn3270"
)

type Mode int

const (
	ModeTelnet Mode = 0 + iota
	ModeTN3270
	ModeTN5250
)

func (m Mode) String() string {
	switch m {
	case ModeTN3270:
		return "tn3270"
	case ModeTN5250:
		return "tn5250"
	default:
		return "telnet"
	}
}

type StartTLSState int

const (
	StartTLSNone StartTLSState = 0 + iota
	StartTLSOffered
	StartTLSSwitched
)

// Session is the state the engine keeps for one TELNET connection. The
// host owns it and passes it to every Decode call for that connection. The
// zero value is a fresh TELNET session.
type Session struct {
	Mode   Mode
	TN3270 *tn3270.Session

	starttls      StartTLSState
	starttlsFrame int
	starttlsPort  uint16

	// tlsFrame is the last frame before the connection switched to TLS.
	tlsFrame    int
	tlsSwitched bool

	vmotionSeqLen   int
	vmotionSeqKnown bool

	options optionLedger
}

func NewSession() *Session {
	return &Session{}
}

// SetTN3270 puts the session in TN3270 mode without waiting for a
// negotiation, for connections on ports known to carry 3270 traffic.
func (s *Session) SetTN3270(outbound, inbound netip.AddrPort, extended bool, model int) *tn3270.Session {
	s.Mode = ModeTN3270
	s.TN3270 = tn3270.NewSession(outbound, inbound, extended, model)
	return s.TN3270
}

func (s *Session) StartTLS() StartTLSState { return s.starttls }

// TLSAfter reports the frame after which the connection carries TLS.
func (s *Session) TLSAfter() (int, bool) { return s.tlsFrame, s.tlsSwitched }

// VMotionSequenceLen is the vMotion sequence length learned on this
// connection, if any.
func (s *Session) VMotionSequenceLen() (int, bool) {
	return s.vmotionSeqLen, s.vmotionSeqKnown
}

func (s *Session) learnSequenceLen(n int) {
	if !s.vmotionSeqKnown {
		s.vmotionSeqLen, s.vmotionSeqKnown = n, true
	}
}

// OptionEnabled reports whether performer has agreed to perform opt.
func (s *Session) OptionEnabled(opt byte, performer netip.AddrPort) bool {
	return s.options.enabled(opt, performer)
}

// offerStartTLS records a START-TLS FOLLOWS and reports whether it
// completes the handshake.
func (s *Session) offerStartTLS(frame int, port uint16) bool {
	switch s.starttls {
	case StartTLSNone:
		s.starttls = StartTLSOffered
		s.starttlsFrame = frame
		s.starttlsPort = port
	case StartTLSOffered:
		if frame > s.starttlsFrame && port != s.starttlsPort {
			s.starttls = StartTLSSwitched
			return true
		}
	}
	return false
}
