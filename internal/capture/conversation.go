package capture

import (
	"net/netip"

	"github.com/stesla/tnscope/internal/telnet"
)

// ConvKey identifies a connection regardless of direction: A always
// sorts before B.
type ConvKey struct {
	A, B netip.AddrPort
}

func keyFor(src, dst netip.AddrPort) ConvKey {
	if src.Compare(dst) > 0 {
		src, dst = dst, src
	}
	return ConvKey{A: src, B: dst}
}

// Conversation is the host side of one TELNET connection: the engine's
// session plus what the replayer learns about it.
type Conversation struct {
	ID int
	ConvKey
	Session  *telnet.Session
	Protocol string
	Frames   int
	Bytes    uint64
	Handoffs map[string]int

	lastFrame int
	pending   map[netip.AddrPort][]byte
}

func (c *Conversation) Pending(src netip.AddrPort) int {
	return len(c.pending[src])
}

type Table struct {
	convs map[ConvKey]*Conversation
	order []*Conversation
}

func NewTable() *Table {
	return &Table{convs: map[ConvKey]*Conversation{}}
}

// FindOrCreate returns the conversation between src and dst, creating it
// on first sight. The bool reports whether it was created.
func (t *Table) FindOrCreate(src, dst netip.AddrPort) (*Conversation, bool) {
	key := keyFor(src, dst)
	if c, ok := t.convs[key]; ok {
		return c, false
	}
	c := &Conversation{
		ID:       len(t.order) + 1,
		ConvKey:  key,
		Session:  telnet.NewSession(),
		Protocol: "telnet",
		Handoffs: map[string]int{},
		pending:  map[netip.AddrPort][]byte{},
	}
	t.convs[key] = c
	t.order = append(t.order, c)
	return c, true
}

// All lists conversations in the order they were first seen.
func (t *Table) All() []*Conversation {
	return t.order
}
