package telnet

import (
	"github.com/stesla/tnscope/internal/dissect"
)

// TN3270E negotiation keywords, RFC 2355.
const (
	tn3270eAssociate = 0 + iota
	tn3270eConnect
	tn3270eDeviceType
	tn3270eFunctions
	tn3270eIs
	tn3270eReason
	tn3270eReject
	tn3270eRequest
	tn3270eSend
)

var tn3270eKeywords = []string{
	"ASSOCIATE",
	"CONNECT",
	"DEVICE-TYPE",
	"FUNCTIONS",
	"IS",
	"REASON",
	"REJECT",
	"REQUEST",
	"SEND",
}

var tn3270eReasons = []string{
	"CONN-PARTNER",
	"DEVICE-IN-USE",
	"INV-ASSOCIATE",
	"INV-NAME",
	"INV-DEVICE-TYPE",
	"TYPE-NAME-ERROR",
	"UNKNOWN-ERROR",
	"UNSUPPORTED-REQ",
}

var tn3270eFunctionNames = []string{
	"BIND-IMAGE",
	"DATA-STREAM-CTL",
	"RESPONSES",
	"SCS-CTL-CODES",
	"SYSREQ",
}

func isKeyword(b byte) bool { return b <= tn3270eSend }

func decodeTN3270E(d *subDecoder) {
	end := d.len()
	keyword := func(off int) byte {
		b := d.u8(off)
		d.t.Field(off, 1, "tn3270e.keyword", b, "%s", tableName(tn3270eKeywords, b))
		return b
	}
	// name reads the ASCII run at off up to the next keyword byte.
	name := func(off int, key, label string) (string, int) {
		stop := off
		for stop < end && !isKeyword(d.u8(stop)) {
			stop++
		}
		s := string(d.bytes(off, stop-off))
		d.t.Field(off, stop-off, key, s, "%s: %s", label, s)
		return s, stop
	}

	cmd := d.u8(0)
	if !isKeyword(cmd) {
		d.invalidSubcommand(0, cmd)
		return
	}
	keyword(0)

	switch cmd {
	case tn3270eSend:
		if end > 1 {
			keyword(1)
		}
		d.extra(2)
	case tn3270eDeviceType:
		if end < 2 {
			d.diag(dissect.SeverityWarn, 0, end, "DEVICE-TYPE without a subcommand")
			return
		}
		sub := keyword(1)
		switch sub {
		case tn3270eRequest, tn3270eIs:
			device, off := name(2, "tn3270e.device_type", "Device Type")
			for off < end {
				switch kw := keyword(off); kw {
				case tn3270eConnect, tn3270eAssociate:
					_, off = name(off+1, "tn3270e.device_name", "Device Name")
				default:
					off++
				}
			}
			model := terminalModel(device)
			if sub == tn3270eRequest {
				d.e.startTN3270(d.ctx, d.sess, d.pkt, d.pkt.Dst, d.pkt.Src, true, model)
			} else {
				d.e.startTN3270(d.ctx, d.sess, d.pkt, d.pkt.Src, d.pkt.Dst, true, model)
			}
		case tn3270eReject:
			if end > 3 && d.u8(2) == tn3270eReason {
				keyword(2)
				r := d.u8(3)
				d.t.Field(3, 1, "tn3270e.reason", r, "Reason: %s", tableName(tn3270eReasons, r))
				d.extra(4)
			} else {
				d.diag(dissect.SeverityWarn, 2, end-2, "REJECT without a REASON")
			}
		default:
			d.extra(2)
		}
	case tn3270eFunctions:
		if end < 2 {
			return
		}
		keyword(1)
		for off := 2; off < end; off++ {
			f := d.u8(off)
			d.t.Field(off, 1, "tn3270e.function", f, "Function: %s", tableName(tn3270eFunctionNames, f))
		}
	default:
		d.extra(1)
	}
}
