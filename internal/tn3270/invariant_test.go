//go:build !tndebug

package tn3270

import (
	"testing"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stretchr/testify/require"
)

func TestOverrunIsReported(t *testing.T) {
	outboundFields[0x77] = fieldEntry{"Greedy", func(d *decoder, t dissect.Tree, off, n int) int {
		return n + 1
	}}
	defer delete(outboundFields, 0x77)

	sess := NewSession(host, client, false, 2)
	diags := dissect.Diagnostics(decode(sess, Outbound, wsf(0x00, 0x04, 0x77, 0x00)))
	require.Len(t, diags, 1)
	require.Equal(t, dissect.SeverityError, diags[0].Severity)
	require.Equal(t, "Decoder overran Greedy: consumed 2 of 1 bytes", diags[0].Label)
}
