package dissect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeNesting(t *testing.T) {
	tree := NewTree()
	sub := tree.Text(0, 4, "Parent %d", 1)
	sub.Field(1, 2, "child", uint16(7), "Child: %d", 7)
	tree.Text(4, 1, "Sibling")

	recs := tree.Records()
	require.Len(t, recs, 3)
	require.Equal(t, 0, recs[0].Depth)
	require.Equal(t, 1, recs[1].Depth)
	require.Equal(t, 0, recs[2].Depth)
	require.Equal(t, "Parent 1", recs[0].Label)
	require.Equal(t, uint16(7), recs[1].Value)
}

func TestTreeRebase(t *testing.T) {
	tree := NewTree()
	tree.Rebase(10).Text(2, 1, "x")
	tree.Text(2, 1, "y")
	recs := tree.Records()
	require.Equal(t, 12, recs[0].Offset)
	require.Equal(t, 2, recs[1].Offset)
}

func TestTreeRemap(t *testing.T) {
	// Packet bytes 3..7 hold 00 ff ff 00 18; the derived buffer dropped one ff.
	pos := []int{0, 1, 3, 4, 5}
	var tests = []struct {
		off, n         int
		offset, length int
	}{
		{0, 2, 3, 3},
		{2, 2, 6, 2},
		{1, 1, 4, 2},
		{4, 0, 8, 0},
		{3, 9, 7, 1},
	}
	for i, test := range tests {
		tree := NewTree()
		tree.Remap(3, pos).Field(test.off, test.n, "k", nil, "x")
		r := tree.Records()[0]
		require.Equal(t, test.offset, r.Offset, i)
		require.Equal(t, test.length, r.Length, i)
	}

	tree := NewTree()
	tree.Remap(3, pos).Rebase(2).Text(0, 2, "rebased")
	tree.Remap(3, pos).Remap(1, []int{0, 2}).Text(0, 1, "nested")
	tree.Remap(3, nil).Text(1, 1, "plain")
	recs := tree.Records()
	require.Equal(t, 6, recs[0].Offset)
	require.Equal(t, 2, recs[0].Length)
	require.Equal(t, 4, recs[1].Offset)
	require.Equal(t, 3, recs[1].Length)
	require.Equal(t, 4, recs[2].Offset)
}

func TestTreeLabelWithoutArgsIsLiteral(t *testing.T) {
	tree := NewTree()
	tree.Text(0, 0, "100% literal")
	require.Equal(t, "100% literal", tree.Records()[0].Label)
}

func TestSummary(t *testing.T) {
	tree := NewTree()
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		tree.Event(0, 1, s)
		tree.Text(0, 1, "ignored")
	}
	require.Equal(t, "a, b, c, d, e", Summary(tree.Records(), 5))

	tree.Event(0, 1, "f")
	require.Equal(t, "a, b, c, d, e …", Summary(tree.Records(), 5))
	require.Equal(t, "", Summary(nil, 5))
}

func TestDiagnostics(t *testing.T) {
	tree := NewTree()
	tree.Text(0, 1, "ok")
	tree.Diag(SeverityWarn, 0, 1, "bad %s", "thing")
	diags := Diagnostics(tree.Records())
	require.Len(t, diags, 1)
	require.Equal(t, "bad thing", diags[0].Label)
	require.Equal(t, "[warn] bad thing", diags[0].String())
}
