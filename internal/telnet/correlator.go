package telnet

type KeyTag int

const (
	TagVMotion KeyTag = 0 + iota
)

// Key identifies a pairing by exact blob contents and tag.
type Key struct {
	Blob string
	Tag  KeyTag
}

type Pairing struct {
	Key     Key
	Session *Session
	Closed  bool
}

// Correlator pairs messages seen on two different connections. It is not
// safe for concurrent use; a host decoding connections in parallel must
// serialise access to it.
type Correlator struct {
	live map[Key]*Pairing
}

func NewCorrelator() *Correlator {
	return &Correlator{live: map[Key]*Pairing{}}
}

// Find returns the open pairing for k, or nil.
func (c *Correlator) Find(k Key) *Pairing {
	return c.live[k]
}

// Create opens a pairing for k. When one is already open it is returned
// unchanged.
func (c *Correlator) Create(k Key, s *Session) *Pairing {
	if p, ok := c.live[k]; ok {
		return p
	}
	p := &Pairing{Key: k, Session: s}
	c.live[k] = p
	return p
}

// Close ends p. Later lookups of its key find nothing until the key is
// created again.
func (c *Correlator) Close(p *Pairing) {
	if p == nil || p.Closed {
		return
	}
	p.Closed = true
	if c.live[p.Key] == p {
		delete(c.live, p.Key)
	}
}

func (c *Correlator) Len() int { return len(c.live) }
