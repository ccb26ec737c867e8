package tn3270

import (
	"fmt"

	"github.com/stesla/tnscope/internal/dissect"
)

// A field handler decodes the n body bytes at off and returns how many it
// consumed. It must never consume more than n.
type fieldHandler func(d *decoder, t dissect.Tree, off, n int) int

type fieldEntry struct {
	name string
	fn   fieldHandler
}

var (
	outboundFields = map[uint16]fieldEntry{}
	inboundFields  = map[uint16]fieldEntry{}
	sharedFields   = map[uint16]fieldEntry{}
)

// The first byte of a two-byte structured field id.
func twoByteID(b byte) bool {
	return b == 0x0f || b == 0x10 || b == 0x81
}

func lookupField(dir Direction, id uint16) (fieldEntry, bool) {
	if e, ok := sharedFields[id]; ok {
		return e, true
	}
	if dir == Outbound {
		e, ok := outboundFields[id]
		return e, ok
	}
	e, ok := inboundFields[id]
	return e, ok
}

func (d *decoder) structuredFields(t dissect.Tree, off, end int) int {
	for off < end {
		if end-off < 2 {
			if d.u8(off) == 0 {
				t.Text(off, 1, "Padding")
				off++
				continue
			}
			t.Diag(dissect.SeverityError, off, end-off, "Structured field truncated")
			d.raw(t, off, end-off, "Data")
			return end
		}

		length := int(d.u16(off))
		if length == 0 {
			t.Text(off, 1, "Padding")
			off++
			continue
		}
		if length < 3 || end-off < 3 {
			t.Diag(dissect.SeverityError, off, end-off, "Structured field length %d is invalid", length)
			d.raw(t, off, end-off, "Data")
			return end
		}

		id, idWidth := uint16(d.u8(off+2)), 1
		if twoByteID(byte(id)) {
			if length < 4 || end-off < 4 {
				t.Diag(dissect.SeverityError, off, end-off, "Structured field length %d is invalid", length)
				d.raw(t, off, end-off, "Data")
				return end
			}
			id, idWidth = id<<8|uint16(d.u8(off+3)), 2
		}

		avail := length
		if avail > end-off {
			avail = end - off
		}
		entry, ok := lookupField(d.dir, id)
		if !ok {
			ut := t.Text(off, avail, "Unknown [0x%0*x]", 2*idWidth, id)
			d.raw(ut, off, avail, "Data")
		} else {
			d.field(t, entry, id, idWidth, off, length, avail)
		}
		if avail < length {
			t.Diag(dissect.SeverityWarn, off, avail, "Structured field truncated: %d of %d bytes", avail, length)
			return end
		}
		off += length
	}
	return off
}

func (d *decoder) field(t dissect.Tree, e fieldEntry, id uint16, idWidth, off, length, avail int) {
	ft := t.Text(off, avail, "Structured Field: %s", e.name)
	ft.Field(off, 2, "tn3270.sf_length", length, "Length: %d", length)
	ft.Field(off+2, idWidth, "tn3270.sf_id", id, "ID: 0x%0*x", 2*idWidth, id)

	body := off + 2 + idWidth
	n := avail - 2 - idWidth
	consumed := e.fn(d, ft, body, n)
	switch {
	case consumed > n:
		overrun(ft, body, n, consumed, e.name)
	case consumed < n:
		d.raw(ft, body+consumed, n-consumed, "Unknown trailing data")
	}
}

// sdp describes one kind of self-defining parameter. A zero length accepts
// any length of at least two.
type sdp struct {
	name   string
	length int
	fn     func(d *decoder, t dissect.Tree, off, n int)
}

// sdps decodes {len, id, value} parameters in [off, off+n). An id or length
// it does not recognise ends the loop; the remainder is left unconsumed.
func (d *decoder) sdps(t dissect.Tree, off, n int, table map[byte]sdp) int {
	consumed := 0
	for n-consumed >= 2 {
		at := off + consumed
		l := int(d.u8(at))
		id := d.u8(at + 1)
		p, ok := table[id]
		if !ok || l < 2 || l > n-consumed || (p.length != 0 && l != p.length) {
			break
		}
		st := t.Text(at, l, "%s", p.name)
		st.Field(at, 1, "tn3270.sdp_length", l, "Length: %d", l)
		st.Field(at+1, 1, "tn3270.sdp_id", id, "SDP ID: 0x%02x", id)
		if p.fn != nil {
			p.fn(d, st, at+2, l-2)
		} else {
			d.raw(st, at+2, l-2, "Value")
		}
		consumed += l
	}
	return consumed
}

func lookup(names map[byte]string, b byte) string {
	if name, ok := names[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02x)", b)
}

func tableName(names []string, b byte) string {
	if int(b) < len(names) {
		return names[b]
	}
	return fmt.Sprintf("Unknown (0x%02x)", b)
}

func hexByte(b byte) string {
	return fmt.Sprintf("0x%02x", b)
}

func (d *decoder) byteField(t dissect.Tree, off int, key, label string) byte {
	b := d.u8(off)
	t.Field(off, 1, key, b, "%s: 0x%02x", label, b)
	return b
}

func (d *decoder) u16Field(t dissect.Tree, off int, key, label string) uint16 {
	v := d.u16(off)
	t.Field(off, 2, key, v, "%s: %d", label, v)
	return v
}

func (d *decoder) partitionID(t dissect.Tree, off int) byte {
	return d.byteField(t, off, "tn3270.partition_id", "Partition ID")
}
