package telnet

import (
	"testing"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vmotionSeq    = []byte{0x11, 0x22, 0x33, 0x44}
	vmotionSecret = []byte{0xa1, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7, 0xa8}
)

func vspc(cmd byte, body ...byte) []byte {
	return sb(VMwareSerialProxy, append([]byte{cmd}, body...)...)
}

func TestVMotionPairing(t *testing.T) {
	e := NewEngine()
	source, dest := NewSession(), NewSession()
	blob := append(append([]byte{}, vmotionSeq...), vmotionSecret...)

	res := decode(e, source, 1, client, host, vspc(vspcVMotionBegin, vmotionSeq...))
	assert.Contains(t, labels(res.Records), "Sequence: 11223344")
	n, ok := source.VMotionSequenceLen()
	require.True(t, ok)
	require.Equal(t, 4, n)

	res = decode(e, source, 2, host, client, vspc(vspcVMotionGoahead, blob...))
	l := labels(res.Records)
	assert.Contains(t, l, "Sequence: 11223344")
	assert.Contains(t, l, "Secret: a1a2a3a4a5a6a7a8")
	require.Equal(t, 1, e.Correlator().Len())

	_, ok = dest.VMotionSequenceLen()
	require.False(t, ok)
	res = decode(e, dest, 3, client, host, vspc(vspcVMotionPeer, blob...))
	l = labels(res.Records)
	assert.Contains(t, l, "Sequence: 11223344")
	assert.Contains(t, l, "Secret: a1a2a3a4a5a6a7a8")
	n, ok = dest.VMotionSequenceLen()
	require.True(t, ok)
	require.Equal(t, 4, n)
	require.Zero(t, e.Correlator().Len())

	res = decode(e, dest, 4, host, client, vspc(vspcVMotionPeerOK, vmotionSeq...))
	assert.Contains(t, labels(res.Records), "Sequence: 11223344")
	assert.Empty(t, dissect.Diagnostics(res.Records))
}

func TestVMotionWithoutPairing(t *testing.T) {
	blob := append(append([]byte{}, vmotionSeq...), vmotionSecret...)
	opaque := "Sequence and secret: 11223344a1a2a3a4a5a6a7a8"

	e := NewEngine()
	res := decode(e, NewSession(), 1, client, host, vspc(vspcVMotionPeer, blob...))
	assert.Contains(t, labels(res.Records), opaque)

	// GOAHEAD on a connection that never saw BEGIN opens a pairing but
	// cannot split its own blob.
	res = decode(e, NewSession(), 2, host, client, vspc(vspcVMotionGoahead, blob...))
	assert.Contains(t, labels(res.Records), opaque)
	require.Equal(t, 1, e.Correlator().Len())

	// A second GOAHEAD with the same blob from another connection finds the
	// first one's pairing and falls back to opaque output.
	other := NewSession()
	decode(e, other, 3, client, host, vspc(vspcVMotionBegin, vmotionSeq...))
	res = decode(e, other, 4, host, client, vspc(vspcVMotionGoahead, blob...))
	assert.Contains(t, labels(res.Records), opaque)

	// So does a repeated GOAHEAD on the connection that opened the pairing.
	source := NewSession()
	e = NewEngine()
	decode(e, source, 5, client, host, vspc(vspcVMotionBegin, vmotionSeq...))
	res = decode(e, source, 6, host, client, vspc(vspcVMotionGoahead, blob...))
	assert.Contains(t, labels(res.Records), "Secret: a1a2a3a4a5a6a7a8")
	res = decode(e, source, 7, host, client, vspc(vspcVMotionGoahead, blob...))
	assert.Contains(t, labels(res.Records), opaque)
}

// A PEER that finds no pairing leaves the blob whole, even when its own
// connection already knows a sequence length.
func TestVMotionPeerWithoutPairing(t *testing.T) {
	blob := append(append([]byte{}, vmotionSeq...), vmotionSecret...)
	e := NewEngine()
	sess := NewSession()
	decode(e, sess, 1, client, host, vspc(vspcVMotionBegin, vmotionSeq...))

	res := decode(e, sess, 2, client, host, vspc(vspcVMotionPeer, blob...))
	l := labels(res.Records)
	assert.Contains(t, l, "Sequence and secret: 11223344a1a2a3a4a5a6a7a8")
	assert.NotContains(t, l, "Secret: a1a2a3a4a5a6a7a8")
	require.Zero(t, e.Correlator().Len())
}

func TestVMotionSharedCorrelator(t *testing.T) {
	corr := NewCorrelator()
	a, b := NewEngine(WithCorrelator(corr)), NewEngine(WithCorrelator(corr))
	source, dest := NewSession(), NewSession()
	blob := append(append([]byte{}, vmotionSeq...), vmotionSecret...)

	decode(a, source, 1, client, host, vspc(vspcVMotionBegin, vmotionSeq...))
	decode(a, source, 2, host, client, vspc(vspcVMotionGoahead, blob...))
	res := decode(b, dest, 3, client, host, vspc(vspcVMotionPeer, blob...))
	assert.Contains(t, labels(res.Records), "Secret: a1a2a3a4a5a6a7a8")
	require.Zero(t, corr.Len())
}

func TestVSPC(t *testing.T) {
	var tests = []struct {
		data     []byte
		expected []string
	}{
		{vspc(vspcKnownSuboptions1, vspcVMotionBegin, 99), []string{"Command: KNOWN-SUBOPTIONS-1", "Known suboption: VMOTION-BEGIN", "Known suboption: Unknown (99)"}},
		{vspc(vspcUnknownSuboptionRcvd2, 99), []string{"Unknown suboption: 99"}},
		{vspc(vspcDoProxy, append([]byte{'C'}, "telnet://vspc:13370"...)...), []string{"Direction: Client", "Service URI: telnet://vspc:13370"}},
		{vspc(vspcVMVCUUID, []byte("5012-abcd")...), []string{"VM-VC-UUID: 5012-abcd"}},
		{vspc(vspcVMName, []byte("caf\xc3\xa9")...), []string{"VM-NAME: café"}},
		{vspc(vspcGetVMName), []string{"Command: GET-VM-NAME"}},
		{vspc(vspcVMotionAbort), []string{"Command: VMOTION-ABORT"}},
	}
	for i, test := range tests {
		res := decode(NewEngine(), NewSession(), 1, client, host, test.data)
		l := labels(res.Records)
		for _, expected := range test.expected {
			assert.Contains(t, l, expected, i)
		}
		assert.Empty(t, dissect.Diagnostics(res.Records), i)
	}
}

func TestVSPCTrailingData(t *testing.T) {
	var tests = [][]byte{
		vspc(vspcUnknownSuboptionRcvd1, 99, 1, 2),
		vspc(vspcGetVMBIOSUUID, 1, 2),
		vspc(vspcWontProxy, 1, 2),
	}
	for i, data := range tests {
		res := decode(NewEngine(), NewSession(), 1, client, host, data)
		diags := dissect.Diagnostics(res.Records)
		require.Len(t, diags, 1, i)
		require.Equal(t, "Unexpected trailing data", diags[0].Label, i)
		require.Equal(t, dissect.SeverityWarn, diags[0].Severity, i)
	}
}

func TestVSPCUnknownCommand(t *testing.T) {
	res := decode(NewEngine(), NewSession(), 1, client, host, vspc(99, 1))
	diags := dissect.Diagnostics(res.Records)
	require.Len(t, diags, 1)
	require.Equal(t, "Invalid subcommand 99 for option VMware Serial Port Proxy", diags[0].Label)
	assert.Contains(t, labels(res.Records), "Data: 01")
}
