package telnet

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/wire"
)

// subDecoder is what a suboption decoder sees: the unescaped body in c,
// the output tree rebased to the body's position in the packet, and the
// connection it belongs to.
type subDecoder struct {
	ctx  context.Context
	e    *Engine
	sess *Session
	pkt  *Packet
	opt  Option
	t    dissect.Tree
	c    wire.Cursor
}

func (d *subDecoder) len() int { return d.c.Len() }

func (d *subDecoder) u8(off int) byte {
	b, _ := d.c.Byte(off)
	return b
}

func (d *subDecoder) u16(off int) uint16 {
	v, _ := d.c.Uint16(off)
	return v
}

func (d *subDecoder) u32(off int) uint32 {
	v, _ := d.c.Uint32(off)
	return v
}

func (d *subDecoder) rest(off int) []byte {
	return d.c.Rest(off)
}

func (d *subDecoder) bytes(off, n int) []byte {
	b, _ := d.c.Bytes(off, d.c.Clamp(off, n))
	return b
}

func (d *subDecoder) diag(sev dissect.Severity, off, n int, format string, args ...any) {
	d.t.Diag(sev, off, n, format, args...)
}

func (d *subDecoder) invalidSubcommand(off int, cmd byte) {
	d.diag(dissect.SeverityWarn, off, 1, "Invalid subcommand %d for option %s", cmd, d.opt.Name)
}

func (d *subDecoder) raw(t dissect.Tree, off int, name string) {
	if b := d.rest(off); len(b) > 0 {
		t.Data(off, "telnet.subcmd.data", name, b)
	}
}

// extra flags bytes after a complete subcommand.
func (d *subDecoder) extra(off int) {
	if b := d.rest(off); len(b) > 0 {
		d.t.Data(off, "telnet.extra_data", "Extra data", b)
		d.diag(dissect.SeverityNote, off, len(b), "Extra data")
	}
}

func (d *subDecoder) dispatch(name event.Name, data any) {
	d.e.dispatch(d.ctx, event.Event{Name: name, Data: data})
}

// tableName renders names[b], or "<invalid>" when b is past the table.
func tableName(names []string, b byte) string {
	if int(b) < len(names) {
		return names[b]
	}
	return "<invalid>"
}

func lookup(names map[byte]string, b byte) string {
	if name, ok := names[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", b)
}

// flagNames lists the names of the bits set in mask, lowest bit first.
func flagNames(mask byte, bits []string) []string {
	names := []string{}
	for i, name := range bits {
		if mask&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}
