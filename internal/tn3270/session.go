package tn3270

import "net/netip"

type Direction int

const (
	Outbound Direction = 0 + iota
	Inbound
)

func (d Direction) String() string {
	if d == Outbound {
		return "outbound"
	}
	return "inbound"
}

// Session is the per-connection TN3270 model. Outbound is the host side of
// the connection: everything it sends is an outbound data stream.
type Session struct {
	Outbound netip.AddrPort
	Inbound  netip.AddrPort
	Extended bool
	Model    int
	Geometry
}

func NewSession(outbound, inbound netip.AddrPort, extended bool, model int) *Session {
	return &Session{
		Outbound: outbound,
		Inbound:  inbound,
		Extended: extended,
		Model:    model,
		Geometry: NewGeometry(model),
	}
}

func (s *Session) Direction(src netip.AddrPort) Direction {
	if src == s.Outbound {
		return Outbound
	}
	return Inbound
}
