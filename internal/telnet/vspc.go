package telnet

import (
	"github.com/stesla/tnscope/internal/dissect"
	"golang.org/x/text/encoding/unicode"
)

// VMware virtual serial port proxy commands.
const (
	vspcKnownSuboptions1      = 0
	vspcKnownSuboptions2      = 1
	vspcUnknownSuboptionRcvd1 = 2
	vspcUnknownSuboptionRcvd2 = 3
	vspcVMotionBegin          = 40
	vspcVMotionGoahead        = 41
	vspcVMotionNotNow         = 43
	vspcVMotionPeer           = 44
	vspcVMotionPeerOK         = 45
	vspcVMotionComplete       = 46
	vspcVMotionAbort          = 48
	vspcDoProxy               = 70
	vspcWillProxy             = 71
	vspcWontProxy             = 73
	vspcVMVCUUID              = 80
	vspcGetVMVCUUID           = 81
	vspcVMName                = 82
	vspcGetVMName             = 83
	vspcVMBIOSUUID            = 84
	vspcGetVMBIOSUUID         = 85
	vspcVMLocationUUID        = 86
	vspcGetVMLocationUUID     = 87
)

var vspcCommandNames = map[byte]string{
	vspcKnownSuboptions1:      "KNOWN-SUBOPTIONS-1",
	vspcKnownSuboptions2:      "KNOWN-SUBOPTIONS-2",
	vspcUnknownSuboptionRcvd1: "UNKNOWN-SUBOPTION-RCVD-1",
	vspcUnknownSuboptionRcvd2: "UNKNOWN-SUBOPTION-RCVD-2",
	vspcVMotionBegin:          "VMOTION-BEGIN",
	vspcVMotionGoahead:        "VMOTION-GOAHEAD",
	vspcVMotionNotNow:         "VMOTION-NOTNOW",
	vspcVMotionPeer:           "VMOTION-PEER",
	vspcVMotionPeerOK:         "VMOTION-PEER-OK",
	vspcVMotionComplete:       "VMOTION-COMPLETE",
	vspcVMotionAbort:          "VMOTION-ABORT",
	vspcDoProxy:               "DO-PROXY",
	vspcWillProxy:             "WILL-PROXY",
	vspcWontProxy:             "WONT-PROXY",
	vspcVMVCUUID:              "VM-VC-UUID",
	vspcGetVMVCUUID:           "GET-VM-VC-UUID",
	vspcVMName:                "VM-NAME",
	vspcGetVMName:             "GET-VM-NAME",
	vspcVMBIOSUUID:            "VM-BIOS-UUID",
	vspcGetVMBIOSUUID:         "GET-VM-BIOS-UUID",
	vspcVMLocationUUID:        "VM-LOCATION-UUID",
	vspcGetVMLocationUUID:     "GET-VM-LOCATION-UUID",
}

var proxyDirections = map[byte]string{
	'C': "Client",
	'S': "Server",
}

func decodeVSPC(d *subDecoder) {
	cmd := d.u8(0)
	name, ok := vspcCommandNames[cmd]
	if !ok {
		d.invalidSubcommand(0, cmd)
		d.raw(d.t, 1, "Data")
		return
	}
	d.t.Field(0, 1, "telnet.vmware.cmd", cmd, "Command: %s", name)

	off := 1
	switch cmd {
	case vspcKnownSuboptions1, vspcKnownSuboptions2:
		for ; off < d.len(); off++ {
			code := d.u8(off)
			d.t.Field(off, 1, "telnet.vmware.known_suboption", code, "Known suboption: %s", vspcName(code))
		}
	case vspcUnknownSuboptionRcvd1, vspcUnknownSuboptionRcvd2:
		if off < d.len() {
			code := d.u8(off)
			d.t.Field(off, 1, "telnet.vmware.unknown_suboption", code, "Unknown suboption: %d", code)
			off++
		}
	case vspcVMotionBegin:
		seq := d.rest(off)
		d.sess.learnSequenceLen(len(seq))
		d.t.Data(off, "telnet.vmware.vmotion.sequence", "Sequence", seq)
		off += len(seq)
	case vspcVMotionGoahead:
		off = d.vmotionSecret(off, true)
	case vspcVMotionPeer:
		off = d.vmotionSecret(off, false)
	case vspcVMotionNotNow, vspcVMotionPeerOK, vspcVMotionComplete, vspcVMotionAbort:
		off = d.vmotionSequence(off)
	case vspcDoProxy:
		if off < d.len() {
			dir := d.u8(off)
			d.t.Field(off, 1, "telnet.vmware.proxy.direction", dir, "Direction: %s", lookup(proxyDirections, dir))
			off++
			uri := string(d.rest(off))
			d.t.Field(off, len(uri), "telnet.vmware.proxy.uri", uri, "Service URI: %s", uri)
			off += len(uri)
		}
	case vspcVMVCUUID, vspcVMBIOSUUID:
		s := string(d.rest(off))
		d.t.Field(off, len(s), "telnet.vmware.uuid", s, "%s: %s", name, s)
		off += len(s)
	case vspcVMName, vspcVMLocationUUID:
		b := d.rest(off)
		s, _ := unicode.UTF8.NewDecoder().Bytes(b)
		d.t.Field(off, len(b), "telnet.vmware.name", string(s), "%s: %s", name, s)
		off += len(b)
	}

	if rest := d.rest(off); len(rest) > 0 {
		d.t.Data(off, "telnet.vmware.trailing", "Unexpected trailing data", rest)
		d.diag(dissect.SeverityWarn, off, len(rest), "Unexpected trailing data")
	}
}

func vspcName(code byte) string {
	if name, ok := vspcCommandNames[code]; ok {
		return name
	}
	return lookup(nil, code)
}

// vmotionSequence decodes a body that carries only the sequence. When its
// length is known anything past it is left for the trailing data check.
func (d *subDecoder) vmotionSequence(off int) int {
	seq := d.rest(off)
	if n, ok := d.sess.VMotionSequenceLen(); ok && n < len(seq) {
		seq = seq[:n]
	}
	d.t.Data(off, "telnet.vmware.vmotion.sequence", "Sequence", seq)
	return off + len(seq)
}

// vmotionSecret decodes a sequence immediately followed by a secret. The
// split comes from the connection that saw VMOTION-BEGIN: GOAHEAD is sent
// on it and opens a pairing keyed by the blob; PEER arrives on the new
// connection and takes the length from that pairing. A GOAHEAD whose
// pairing already exists, or a PEER that finds none, leaves the blob whole.
func (d *subDecoder) vmotionSecret(off int, goahead bool) int {
	blob := d.rest(off)
	key := Key{Blob: string(blob), Tag: TagVMotion}
	corr := d.e.correlator

	split := false
	if goahead {
		if corr.Find(key) == nil {
			corr.Create(key, d.sess)
			split = true
		}
	} else if p := corr.Find(key); p != nil {
		if n, ok := p.Session.VMotionSequenceLen(); ok {
			d.sess.learnSequenceLen(n)
			split = true
		}
		corr.Close(p)
	}

	n, known := d.sess.VMotionSequenceLen()
	if !split || !known || n > len(blob) {
		d.t.Data(off, "telnet.vmware.vmotion.sequence_secret", "Sequence and secret", blob)
		return off + len(blob)
	}
	d.t.Data(off, "telnet.vmware.vmotion.sequence", "Sequence", blob[:n])
	d.t.Data(off+n, "telnet.vmware.vmotion.secret", "Secret", blob[n:])
	return off + len(blob)
}
