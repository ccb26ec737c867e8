package telnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorrelatorCreateIsIdempotent(t *testing.T) {
	c := NewCorrelator()
	k := Key{Blob: "abc", Tag: TagVMotion}
	first, second := NewSession(), NewSession()

	p := c.Create(k, first)
	require.Same(t, p, c.Create(k, second))
	require.Same(t, first, c.Find(k).Session)
	require.Equal(t, 1, c.Len())
}

func TestCorrelatorClose(t *testing.T) {
	c := NewCorrelator()
	k := Key{Blob: "abc", Tag: TagVMotion}
	p := c.Create(k, NewSession())

	c.Close(p)
	require.True(t, p.Closed)
	require.Nil(t, c.Find(k))
	require.Zero(t, c.Len())

	// A new pairing for the same key is a different entry, and closing the
	// old one again leaves it alone.
	q := c.Create(k, NewSession())
	require.NotSame(t, p, q)
	c.Close(p)
	require.Same(t, q, c.Find(k))

	c.Close(nil)
	require.Equal(t, 1, c.Len())
}

func TestCorrelatorKeys(t *testing.T) {
	c := NewCorrelator()
	c.Create(Key{Blob: "abc", Tag: TagVMotion}, NewSession())
	require.Nil(t, c.Find(Key{Blob: "abd", Tag: TagVMotion}))
	require.Nil(t, c.Find(Key{Blob: "abc", Tag: TagVMotion + 1}))
	require.NotNil(t, c.Find(Key{Blob: "abc", Tag: TagVMotion}))
}
