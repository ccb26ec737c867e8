package tn3270

import (
	"strings"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stesla/tnscope/internal/wire"
)

type decoder struct {
	sess *Session
	dir  Direction
	c    wire.Cursor
}

// Decode decodes one TN3270 record: the bytes between two IAC EOR marks,
// already unescaped. Offsets in t are relative to rec[0].
func Decode(sess *Session, dir Direction, rec []byte, t dissect.Tree) {
	d := &decoder{sess: sess, dir: dir, c: wire.New(rec)}
	end := len(rec)
	if end == 0 {
		return
	}
	if !sess.Extended {
		d.stream(t, 0, end)
		return
	}

	if end < headerLen {
		t.Diag(dissect.SeverityError, 0, end, "TN3270E header truncated: %d of %d bytes", end, headerLen)
		d.raw(t, 0, end, "Data")
		return
	}
	dataType, respFlag := d.header(t, 0)
	off := headerLen
	switch dataType {
	case DataType3270:
		d.stream(t, off, end)
	case DataTypeResponse:
		d.response(t, off, end, respFlag)
	case DataTypeNVT:
		d.nvt(t, off, end)
	default:
		if name, ok := dataTypeNames[dataType]; ok {
			d.ebcdicData(t, off, end, name)
		} else {
			t.Diag(dissect.SeverityWarn, 0, 1, "Unknown TN3270E data type 0x%02x", dataType)
			d.raw(t, off, end-off, "Data")
		}
	}
}

func (d *decoder) stream(t dissect.Tree, off, end int) {
	if d.dir == Outbound {
		d.outbound(t, off, end)
	} else {
		d.inbound(t, off, end)
	}
}

func (d *decoder) u8(off int) byte {
	b, _ := d.c.Byte(off)
	return b
}

func (d *decoder) u16(off int) uint16 {
	v, _ := d.c.Uint16(off)
	return v
}

func (d *decoder) bytes(off, n int) []byte {
	b, _ := d.c.Bytes(off, d.c.Clamp(off, n))
	return b
}

func (d *decoder) raw(t dissect.Tree, off, n int, name string) {
	if n <= 0 {
		return
	}
	t.Data(off, "tn3270.data", name, d.bytes(off, n))
}

func (d *decoder) ebcdicData(t dissect.Tree, off, end int, name string) {
	if off >= end {
		return
	}
	b := d.bytes(off, end-off)
	t.Field(off, len(b), "tn3270.data", b, "%s: %s", name, EBCDIC(b))
}

func (d *decoder) header(t dissect.Tree, off int) (dataType, respFlag byte) {
	dataType = d.u8(off)
	reqFlag := d.u8(off + 1)
	respFlag = d.u8(off + 2)
	seq := d.u16(off + 3)

	ht := t.Text(off, headerLen, "TN3270E Header")
	ht.Field(off, 1, "tn3270e.data_type", dataType, "Data Type: %s", lookup(dataTypeNames, dataType))
	ht.Field(off+1, 1, "tn3270e.request_flag", reqFlag, "Request Flag: %s", requestFlag(dataType, reqFlag))
	ht.Field(off+2, 1, "tn3270e.response_flag", respFlag, "Response Flag: %s", responseFlag(dataType, respFlag))
	ht.Field(off+3, 2, "tn3270e.seq_number", seq, "Sequence Number: %d", seq)
	return
}

func requestFlag(dataType, flag byte) string {
	if dataType == DataTypeRequest && flag == 0 {
		return "ERR-COND-CLEARED"
	}
	if flag == 0 {
		return "None"
	}
	return hexByte(flag)
}

func responseFlag(dataType, flag byte) string {
	if dataType == DataTypeResponse {
		return tableName(responseTypeFlagNames[:], flag)
	}
	return tableName(responseFlagNames[:], flag)
}

func (d *decoder) response(t dissect.Tree, off, end int, flag byte) {
	if off >= end {
		return
	}
	code := d.u8(off)
	if flag == 0 {
		t.Field(off, 1, "tn3270e.response", code, "Response: Positive (0x%02x)", code)
	} else {
		t.Field(off, 1, "tn3270e.response", code, "Response: %s", tableName(negativeResponseNames[:], code))
	}
	d.trailing(t, off+1, end)
}

func (d *decoder) nvt(t dissect.Tree, off, end int) {
	if off >= end {
		return
	}
	b := d.bytes(off, end-off)
	t.Field(off, len(b), "tn3270e.nvt", b, "NVT Data: %s", printable(b))
}

func printable(b []byte) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '.'
		}
		return r
	}, string(b))
}

func (d *decoder) trailing(t dissect.Tree, off, end int) {
	if off < end {
		d.raw(t, off, end-off, "Unknown trailing data")
	}
}

func (d *decoder) outbound(t dissect.Tree, off, end int) int {
	if off >= end {
		return 0
	}
	start := off
	cmd := d.u8(off)
	name, ok := commandNames[cmd]
	if !ok {
		t.Diag(dissect.SeverityWarn, off, 1, "Unknown 3270 command 0x%02x", cmd)
		d.raw(t, off, end-off, "Data")
		return end - start
	}
	t.Event(off, 1, "3270 Command: %s", name).Field(off, 1, "tn3270.command", cmd, "Command Code: 0x%02x", cmd)
	off++

	switch cmd {
	case CmdEraseWrite, CmdSNAEraseWrite:
		d.sess.UseDefault()
		off = d.writeStream(t, off, end)
	case CmdEWA, CmdSNAEWA:
		d.sess.UseAlternate()
		off = d.writeStream(t, off, end)
	case CmdWrite, CmdSNAWrite:
		off = d.writeStream(t, off, end)
	case CmdWSF, CmdSNAWSF:
		off = d.structuredFields(t, off, end)
	default:
		d.trailing(t, off, end)
		off = end
	}
	return off - start
}

func (d *decoder) writeStream(t dissect.Tree, off, end int) int {
	if off >= end {
		return off
	}
	d.wcc(t, off)
	return d.orders(t, off+1, end)
}

func (d *decoder) wcc(t dissect.Tree, off int) {
	wcc := d.u8(off)
	wt := t.Field(off, 1, "tn3270.wcc", wcc, "Write Control Character: 0x%02x", wcc)
	flag := func(mask byte, name string) {
		wt.Field(off, 1, "tn3270.wcc."+strings.ReplaceAll(strings.ToLower(name), " ", "_"), wcc&mask != 0, "%s: %t", name, wcc&mask != 0)
	}
	flag(wccReset, "Reset")
	wt.Field(off, 1, "tn3270.wcc.printer", wcc&wccPrinterMask>>4, "Printer: %s", wccPrinterNames[wcc&wccPrinterMask>>4])
	flag(wccStartPrinter, "Start Printer")
	flag(wccSoundAlarm, "Sound Alarm")
	flag(wccKeyboardReset, "Keyboard Restore")
	flag(wccResetMDT, "Reset MDT")
}

func (d *decoder) inbound(t dissect.Tree, off, end int) int {
	if off >= end {
		return 0
	}
	start := off
	aid := d.u8(off)
	name, ok := aidNames[aid]
	if !ok {
		name = "Unknown AID " + hexByte(aid)
	}
	t.Event(off, 1, "AID: %s", name).Field(off, 1, "tn3270.aid", aid, "AID: 0x%02x", aid)
	off++

	switch {
	case aid == AIDStructuredField:
		off = d.structuredFields(t, off, end)
	case shortRead(aid):
		d.trailing(t, off, end)
		off = end
	default:
		if d.c.Has(off, 2) && off+2 <= end {
			d.address(t, off, "Cursor Address")
			off += 2
		}
		off = d.orders(t, off, end)
	}
	return off - start
}

func (d *decoder) address(t dissect.Tree, off int, label string) Address {
	a := DecodeAddress(d.u16(off), d.sess.Geometry)
	t.Field(off, 2, "tn3270.buffer_address", a, "%s: %s", label, a)
	return a
}

// orderLen returns the encoded length of the order at off, or 0 when it
// runs past end.
func (d *decoder) orderLen(off, end int) int {
	var n int
	switch d.u8(off) {
	case OrderPT, OrderIC:
		n = 1
	case OrderGE, OrderSF:
		n = 2
	case OrderSBA, OrderEUA, OrderSA:
		n = 3
	case OrderSFE, OrderMF:
		if off+1 >= end {
			return 0
		}
		n = 2 + 2*int(d.u8(off+1))
	case OrderRA:
		n = 4
		if off+3 < end && d.u8(off+3) == OrderGE {
			n = 5
		}
	}
	if n > end-off {
		return 0
	}
	return n
}

func (d *decoder) orders(t dissect.Tree, off, end int) int {
	for off < end {
		b := d.u8(off)
		name, isOrder := orderNames[b]
		if !isOrder {
			if _, ok := formatControls[b]; b < 0x40 && !ok {
				t.Diag(dissect.SeverityWarn, off, 1, "Unknown order 0x%02x", b)
				d.raw(t, off, end-off, "Data")
				return end
			}
			off = d.dataRun(t, off, end)
			continue
		}

		n := d.orderLen(off, end)
		if n == 0 {
			t.Diag(dissect.SeverityError, off, end-off, "%s order truncated", name)
			d.raw(t, off, end-off, "Data")
			return end
		}
		ot := t.Text(off, n, "Order: %s", name)
		switch b {
		case OrderSBA:
			d.address(ot, off+1, "Buffer Address")
		case OrderEUA:
			d.address(ot, off+1, "Stop Address")
		case OrderSF:
			d.fieldAttribute(ot, off+1)
		case OrderSA:
			d.attributePair(ot, off+1)
		case OrderSFE, OrderMF:
			count := int(d.u8(off + 1))
			ot.Field(off+1, 1, "tn3270.attribute_count", count, "Number of Attributes: %d", count)
			for i := 0; i < count; i++ {
				d.attributePair(ot, off+2+2*i)
			}
		case OrderRA:
			d.address(ot, off+1, "Stop Address")
			ch := d.bytes(off+3, n-3)
			ot.Field(off+3, len(ch), "tn3270.repeat_char", ch, "Character: %s", EBCDIC(ch[len(ch)-1:]))
		case OrderGE:
			ch := d.u8(off + 1)
			ot.Field(off+1, 1, "tn3270.ge_char", ch, "Character: 0x%02x", ch)
		}
		off += n
	}
	return off
}

func (d *decoder) dataRun(t dissect.Tree, off, end int) int {
	start := off
	for off < end {
		b := d.u8(off)
		if _, isOrder := orderNames[b]; isOrder {
			break
		}
		if _, ok := formatControls[b]; b < 0x40 && !ok {
			break
		}
		off++
	}
	if off > start {
		b := d.bytes(start, off-start)
		t.Field(start, len(b), "tn3270.data", b, "Data: %s", EBCDIC(b))
	}
	return off
}

func (d *decoder) fieldAttribute(t dissect.Tree, off int) {
	fa := d.u8(off)
	t.Field(off, 1, "tn3270.field_attribute", fa, "Field Attribute: 0x%02x (%s)", fa, describeFieldAttribute(fa))
}

func describeFieldAttribute(fa byte) string {
	var parts []string
	if fa&0x20 != 0 {
		parts = append(parts, "protected")
	} else {
		parts = append(parts, "unprotected")
	}
	if fa&0x10 != 0 {
		parts = append(parts, "numeric")
	} else {
		parts = append(parts, "alphanumeric")
	}
	switch fa & 0x0c {
	case 0x00:
		parts = append(parts, "display")
	case 0x04:
		parts = append(parts, "display, detectable")
	case 0x08:
		parts = append(parts, "intensified, detectable")
	case 0x0c:
		parts = append(parts, "nondisplay")
	}
	if fa&0x01 != 0 {
		parts = append(parts, "modified")
	}
	return strings.Join(parts, ", ")
}

func (d *decoder) attributePair(t dissect.Tree, off int) {
	typ, val := d.u8(off), d.u8(off+1)
	var value string
	switch typ {
	case attrField:
		value = describeFieldAttribute(val)
	case attrHighlight:
		value = lookup(highlightNames, val)
	case attrForeground, attrBackground:
		value = lookup(colorNames, val)
	default:
		value = hexByte(val)
	}
	t.Field(off, 2, "tn3270.attribute", [2]byte{typ, val}, "%s: %s", lookup(attrNames, typ), value)
}
