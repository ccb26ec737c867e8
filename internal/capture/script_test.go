package capture

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadScript(t *testing.T) {
	segs, err := ReadScript(strings.NewReader(`
# negotiation
1 10.0.0.2:54321 10.0.0.1:23 fffd18
2 10.0.0.1:23 10.0.0.2:54321 ff fb 18

3 10.0.0.1:23 10.0.0.2:54321
`))
	require.NoError(t, err)
	require.Len(t, segs, 3)
	require.Equal(t, []Segment{
		{Frame: 1, Src: client, Dst: host, Data: []byte{0xff, 0xfd, 0x18}},
		{Frame: 2, Src: host, Dst: client, Data: []byte{0xff, 0xfb, 0x18}},
	}, segs[:2])
	require.Equal(t, 3, segs[2].Frame)
	require.Empty(t, segs[2].Data)
}

func TestReadScriptErrors(t *testing.T) {
	var tests = []struct {
		script   string
		expected string
	}{
		{"1 10.0.0.1:23", "line 1: expected frame, source and destination, got 2 fields"},
		{"# header\nx 10.0.0.1:23 10.0.0.2:1", `line 2: bad frame "x"`},
		{"1 nowhere 10.0.0.2:1", `line 1: bad source "nowhere"`},
		{"1 10.0.0.1:23 10.0.0.2 ff", `line 1: bad destination "10.0.0.2"`},
		{"1 10.0.0.1:23 10.0.0.2:1 fff", "line 1: bad payload"},
	}
	for i, test := range tests {
		_, err := ReadScript(strings.NewReader(test.script))
		require.ErrorContains(t, err, test.expected, i)
	}
}

func TestConversationKey(t *testing.T) {
	table := NewTable()
	a, created := table.FindOrCreate(client, host)
	require.True(t, created)
	b, created := table.FindOrCreate(host, client)
	require.False(t, created)
	require.Same(t, a, b)
	require.Equal(t, ConvKey{A: host, B: client}, a.ConvKey)

	other := netip.MustParseAddrPort("10.0.0.3:40000")
	c, created := table.FindOrCreate(other, host)
	require.True(t, created)
	require.Equal(t, 2, c.ID)
	require.Equal(t, []*Conversation{a, c}, table.All())
}
