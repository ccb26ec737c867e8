package telnet

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/stesla/tnscope/internal/dissect"
)

const (
	subIS   = 0
	subSEND = 1
	subINFO = 2
)

// tn3270Terminals and tn5250Terminals are the terminal types that mark a
// connection as carrying a 3270 or 5250 data stream.
var tn3270Terminals = func() map[string]int {
	m := map[string]int{}
	for model := 2; model <= 5; model++ {
		for _, device := range []string{"3278", "3279"} {
			name := fmt.Sprintf("IBM-%s-%d", device, model)
			m[name] = model
			m[name+"-E"] = model
		}
	}
	return m
}()

var tn5250Terminals = map[string]bool{
	"IBM-5555-C01": true,
	"IBM-5555-B01": true,
	"IBM-3477-FC":  true,
	"IBM-3477-FG":  true,
	"IBM-3180-2":   true,
	"IBM-3179-2":   true,
	"IBM-3196-A1":  true,
	"IBM-5292-2":   true,
	"IBM-5291-1":   true,
	"IBM-5251-11":  true,
}

// terminalModel returns the 3270 model digit of an IBM-327x-n[-E] name.
func terminalModel(name string) int {
	if model, ok := tn3270Terminals[name]; ok {
		return model
	}
	if len(name) > 9 && strings.HasPrefix(name, "IBM-327") && name[9] >= '2' && name[9] <= '5' {
		return int(name[9] - '0')
	}
	return 0
}

// decodeString handles the IS/SEND suboptions whose payload is one ASCII
// string: Terminal Type and X Display Location.
func decodeString(d *subDecoder) {
	d.stringSuboption()
}

func (d *subDecoder) stringSuboption() (string, bool) {
	cmd := d.u8(0)
	switch cmd {
	case subIS:
		d.t.Field(0, 1, "telnet.string_subopt.cmd", cmd, "Here's my %s", d.opt.Name)
		value := string(d.rest(1))
		d.t.Field(1, len(value), "telnet.string_subopt.value", value, "Value: %s", value)
		if d.opt.Code == TerminalType {
			d.terminalType(value)
		}
		return value, true
	case subSEND:
		d.t.Field(0, 1, "telnet.string_subopt.cmd", cmd, "Send your %s", d.opt.Name)
		d.extra(1)
	default:
		d.invalidSubcommand(0, cmd)
	}
	return "", false
}

func (d *subDecoder) terminalType(name string) {
	if model, ok := tn3270Terminals[name]; ok {
		// The client names its terminal, so the host is the destination.
		d.e.startTN3270(d.ctx, d.sess, d.pkt, d.pkt.Dst, d.pkt.Src, false, model)
		return
	}
	if tn5250Terminals[name] {
		d.e.startTN5250(d.ctx, d.sess, d.pkt, name)
	}
}

func decodeTerminalSpeed(d *subDecoder) {
	value, ok := d.stringSuboption()
	if !ok {
		return
	}
	tx, rx, found := strings.Cut(value, ",")
	if !found {
		d.diag(dissect.SeverityWarn, 1, len(value), "Terminal speed is not of the form transmit,receive")
		return
	}
	d.t.Field(1, len(tx), "telnet.tspeed.tx", tx, "Transmit Speed: %s", tx)
	d.t.Field(2+len(tx), len(rx), "telnet.tspeed.rx", rx, "Receive Speed: %s", rx)
}

func decodeNAWS(d *subDecoder) {
	w, h := d.u16(0), d.u16(2)
	d.t.Field(0, 2, "telnet.naws.width", w, "Width: %d", w)
	d.t.Field(2, 2, "telnet.naws.height", h, "Height: %d", h)
}

func decodeTACACSUserID(d *subDecoder) {
	b := d.bytes(0, 4)
	uid := netip.AddrFrom4([4]byte(b))
	d.t.Field(0, 4, "telnet.tuid", uid, "User ID: %s", uid)
}

const (
	outmarkACK = 6
	outmarkNAK = 21
	outmarkGS  = 29
)

func decodeOutputMarking(d *subDecoder) {
	switch cmd := d.u8(0); cmd {
	case outmarkACK:
		d.t.Field(0, 1, "telnet.outmark.cmd", cmd, "Acknowledge")
		d.extra(1)
		return
	case outmarkNAK:
		d.t.Field(0, 1, "telnet.outmark.cmd", cmd, "No Acknowledge")
		d.extra(1)
		return
	}
	off, end := 0, d.len()
	for off < end {
		gs := d.c.Find(off, end-off, outmarkGS)
		if gs < 0 {
			gs = end
		}
		if gs > off {
			banner := string(d.bytes(off, gs-off))
			d.t.Field(off, gs-off, "telnet.outmark.banner", banner, "Banner: %s", banner)
		}
		if gs < end {
			d.t.Text(gs, 1, "Banner separator")
		}
		off = gs + 1
	}
}

var flowControlNames = []string{"OFF", "ON", "RESTART-ANY", "RESTART-XON"}

func decodeRemoteFlowControl(d *subDecoder) {
	cmd := d.u8(0)
	d.t.Field(0, 1, "telnet.rfc.cmd", cmd, "Command: %s", tableName(flowControlNames, cmd))
}

const (
	envVAR     = 0
	envVALUE   = 1
	envESC     = 2
	envUSERVAR = 3
)

var environCommands = []string{"IS", "SEND", "INFO"}

// decodeEnviron handles both ENVIRON and NEW-ENVIRON. Variables are runs of
// VAR or USERVAR, a name, and an optional VALUE; ESC quotes the next byte.
func decodeEnviron(d *subDecoder) {
	cmd := d.u8(0)
	if cmd > subINFO {
		d.invalidSubcommand(0, cmd)
		return
	}
	d.t.Field(0, 1, "telnet.environ.cmd", cmd, "Command: %s", environCommands[cmd])

	off, end := 1, d.len()
	for off < end {
		typ := d.u8(off)
		if typ != envVAR && typ != envUSERVAR {
			d.diag(dissect.SeverityWarn, off, end-off, "Expected VAR or USERVAR")
			d.raw(d.t, off, "Data")
			return
		}
		start := off
		name, next := d.environString(off+1, end)
		value, hasValue := "", false
		if next < end && d.u8(next) == envVALUE {
			value, next = d.environString(next+1, end)
			hasValue = true
		}
		kind := "Variable"
		if typ == envUSERVAR {
			kind = "User variable"
		}
		switch {
		case hasValue:
			d.t.Field(start, next-start, "telnet.environ.var", [2]string{name, value}, "%s: %s=%s", kind, name, value)
		default:
			d.t.Field(start, next-start, "telnet.environ.var", [2]string{name, ""}, "%s: %s", kind, name)
		}
		off = next
	}
}

func (d *subDecoder) environString(off, end int) (string, int) {
	var sb strings.Builder
	for off < end {
		b := d.u8(off)
		switch b {
		case envVAR, envVALUE, envUSERVAR:
			return sb.String(), off
		case envESC:
			off++
			if off < end {
				sb.WriteByte(d.u8(off))
			}
		default:
			sb.WriteByte(b)
		}
		off++
	}
	return sb.String(), off
}
