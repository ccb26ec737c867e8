package telnet

import (
	"bytes"

	"github.com/stesla/tnscope/internal/dissect"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var charsetCommandNames = []string{
	"<invalid>",
	"REQUEST",
	"ACCEPTED",
	"REJECTED",
	"TTABLE-IS",
	"TTABLE-REJECTED",
	"TTABLE-ACK",
	"TTABLE-NAK",
}

const ttablePrefix = "[TTABLE]"

func decodeCharset(d *subDecoder) {
	cmd := d.u8(0)
	if cmd < CharsetRequest || cmd > CharsetTTableNak {
		d.invalidSubcommand(0, cmd)
		d.raw(d.t, 1, "Data")
		return
	}
	d.t.Field(0, 1, "telnet.charset.cmd", cmd, "Command: %s", charsetCommandNames[cmd])

	switch cmd {
	case CharsetRequest:
		off := 1
		if data := d.rest(off); len(data) > len(ttablePrefix)+1 && bytes.HasPrefix(data, []byte(ttablePrefix)) {
			d.t.Text(off, len(ttablePrefix), "Translation table requested")
			off += len(ttablePrefix)
			d.t.Field(off, 1, "telnet.charset.ttable_version", d.u8(off), "Version: %d", d.u8(off))
			off++
		}
		d.charsetList(off)
	case CharsetAccepted:
		name := string(d.rest(1))
		enc := d.charsetName(1, []byte(name))
		d.dispatch(EventCharset, CharsetData{Frame: d.pkt.Frame, Name: name, Encoding: enc})
	case CharsetTTableIs:
		if d.len() < 2 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "TTABLE-IS without a version")
			return
		}
		d.t.Field(1, 1, "telnet.charset.ttable_version", d.u8(1), "Version: %d", d.u8(1))
		d.raw(d.t, 2, "Translation table")
	default:
		d.extra(1)
	}
}

// charsetList decodes a separator byte followed by names split on it.
func (d *subDecoder) charsetList(off int) {
	data := d.rest(off)
	if len(data) < 2 {
		d.diag(dissect.SeverityWarn, off, len(data), "Charset list is empty")
		return
	}
	sep := data[0]
	d.t.Field(off, 1, "telnet.charset.separator", sep, "Separator: %q", sep)
	off++
	for _, name := range bytes.Split(data[1:], data[0:1]) {
		d.charsetName(off, name)
		off += len(name) + 1
	}
}

func (d *subDecoder) charsetName(off int, name []byte) encoding.Encoding {
	enc, err := getEncoding(name)
	switch {
	case err != nil:
		d.t.Field(off, len(name), "telnet.charset.name", string(name), "Charset: %s (unregistered)", name)
	case enc == nil:
		d.t.Field(off, len(name), "telnet.charset.name", string(name), "Charset: %s (unsupported)", name)
	default:
		d.t.Field(off, len(name), "telnet.charset.name", string(name), "Charset: %s", name)
	}
	return enc
}

func getEncoding(name []byte) (encoding.Encoding, error) {
	switch s := string(name); s {
	case "US-ASCII":
		return ASCII, nil
	default:
		return ianaindex.IANA.Encoding(s)
	}
}

var ASCII encoding.Encoding

func init() {
	ASCII, _ = ianaindex.IANA.Encoding("US-ASCII")
	if ASCII == nil {
		ASCII = encoding.Nop
	}
}
