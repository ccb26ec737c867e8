package tn3270

import (
	"testing"

	"github.com/stesla/tnscope/internal/dissect"
)

func FuzzDecode(f *testing.F) {
	f.Add([]byte{CmdSNAWrite, 0xc3, OrderSBA, 0x40, 0x40, 0xc1}, false, false)
	f.Add([]byte{CmdSNAWSF, 0x00, 0x00, 0x04, 0x00, 0x01}, false, false)
	f.Add([]byte{AIDStructuredField, 0x00, 0x06, 0x81, 0x80, 0x81, 0x86}, true, false)
	f.Add([]byte{DataType3270, 0x00, 0x00, 0x00, 0x01, CmdEraseWrite, 0x00}, false, true)
	f.Add([]byte{CmdSNAWSF, 0x00, 0x07, 0x40, 0x00, CmdSNAWSF, 0x00}, false, false)
	f.Fuzz(func(t *testing.T, data []byte, inbound, extended bool) {
		dir := Outbound
		if inbound {
			dir = Inbound
		}
		sess := NewSession(host, client, extended, 5)
		tree := dissect.NewTree()
		Decode(sess, dir, data, tree)
		for _, r := range tree.Records() {
			if r.Offset < 0 || r.Length < 0 || r.Offset+r.Length > len(data) {
				t.Fatalf("record %q outside of input: offset %d length %d of %d", r.Label, r.Offset, r.Length, len(data))
			}
		}
		if sess.Rows <= 0 || sess.Cols <= 0 {
			t.Fatalf("bad geometry %dx%d", sess.Rows, sess.Cols)
		}
	})
}
