package telnet

import (
	"strings"

	"github.com/stesla/tnscope/internal/dissect"
)

// Authentication commands, RFC 2941.
const (
	authIS    = 0
	authSEND  = 1
	authREPLY = 2
	authNAME  = 3
)

var authCommandNames = []string{"IS", "SEND", "REPLY", "NAME"}

const (
	authNULL       = 0
	authKRB4       = 1
	authKRB5       = 2
	authSPX        = 3
	authMINK       = 4
	authSRP        = 5
	authRSA        = 6
	authSSL        = 7
	authLOKI       = 10
	authSSA        = 11
	authKEASJ      = 12
	authKEASJInteg = 13
	authDSS        = 14
	authNTLM       = 15
)

var authTypeNames = map[byte]string{
	authNULL:       "NULL",
	authKRB4:       "Kerberos v4",
	authKRB5:       "Kerberos v5",
	authSPX:        "SPX",
	authMINK:       "MINK",
	authSRP:        "SRP",
	authRSA:        "RSA",
	authSSL:        "SSL",
	authLOKI:       "LOKI",
	authSSA:        "SSA",
	authKEASJ:      "KEA_SJ",
	authKEASJInteg: "KEA_SJ_INTEG",
	authDSS:        "DSS",
	authNTLM:       "NTLM",
}

// Modifier bits of an authentication type pair.
const (
	authWhoMask     = 0x01
	authHowMask     = 0x02
	authCredFwdMask = 0x08
	authEncryptMask = 0x14
)

var authEncryptNames = map[byte]string{
	0x00: "Off",
	0x04: "Using telopt",
	0x10: "After exchange",
	0x14: "Reserved",
}

const (
	sslStart  = 1
	sslAccept = 2
	sslReject = 3
)

var sslStatusNames = map[byte]string{
	sslStart:  "Start",
	sslAccept: "Accept",
	sslReject: "Reject",
}

var krbCommandNames = []string{
	"AUTH",
	"REJECT",
	"ACCEPT",
	"RESPONSE",
	"FORWARD",
	"FORWARD_ACCEPT",
	"FORWARD_REJECT",
}

func decodeAuthentication(d *subDecoder) {
	cmd := d.u8(0)
	if int(cmd) >= len(authCommandNames) {
		d.invalidSubcommand(0, cmd)
		return
	}
	d.t.Field(0, 1, "telnet.auth.cmd", cmd, "Command: %s", authCommandNames[cmd])
	n := d.len() - 1

	switch cmd {
	case authIS, authREPLY:
		if n < 2 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "Authentication type pair truncated")
			return
		}
		typ := d.typePair(1)
		d.authData(typ, 3)
	case authSEND:
		off := 1
		for ; d.len()-off >= 2; off += 2 {
			d.typePair(off)
		}
		d.extra(off)
	case authNAME:
		name := string(d.rest(1))
		d.t.Field(1, n, "telnet.auth.name", name, "Name: %s", name)
	}
}

func (d *subDecoder) typePair(off int) byte {
	typ, mod := d.u8(off), d.u8(off+1)
	pt := d.t.Text(off, 2, "Type: %s, Modifiers: 0x%02x", lookup(authTypeNames, typ), mod)
	pt.Field(off, 1, "telnet.auth.type", typ, "Type: %s", lookup(authTypeNames, typ))

	who := "Client => Server"
	if mod&authWhoMask != 0 {
		who = "Server => Client"
	}
	how := "One Way"
	if mod&authHowMask != 0 {
		how = "Mutual"
	}
	fwd := "Off"
	if mod&authCredFwdMask != 0 {
		fwd = "On"
	}
	mt := pt.Field(off+1, 1, "telnet.auth.mod", mod, "Modifiers: 0x%02x", mod)
	mt.Field(off+1, 1, "telnet.auth.mod.who", mod&authWhoMask, "Who: %s", who)
	mt.Field(off+1, 1, "telnet.auth.mod.how", mod&authHowMask, "How: %s", how)
	mt.Field(off+1, 1, "telnet.auth.mod.cred_fwd", mod&authCredFwdMask, "Credential Forwarding: %s", fwd)
	mt.Field(off+1, 1, "telnet.auth.mod.enc", mod&authEncryptMask, "Encrypt: %s", authEncryptNames[mod&authEncryptMask])
	return typ
}

func (d *subDecoder) authData(typ byte, off int) {
	switch typ {
	case authNULL:
	case authSSL:
		if d.len()-off < 1 {
			d.diag(dissect.SeverityWarn, off, 0, "SSL status missing")
			return
		}
		status := d.u8(off)
		d.t.Field(off, 1, "telnet.auth.ssl.status", status, "Status: %s", lookup(sslStatusNames, status))
		if status == sslAccept {
			d.e.switchToTLS(d.ctx, d.sess, d.pkt, "ssl-auth")
		}
		d.extra(off + 1)
	case authKRB4, authKRB5:
		if d.len()-off < 1 {
			return
		}
		sub := d.u8(off)
		d.t.Field(off, 1, "telnet.auth.krb.cmd", sub, "Command: %s", tableName(krbCommandNames, sub))
		if data := d.rest(off + 1); len(data) > 0 {
			proto := "kerberos"
			if typ == authKRB4 {
				proto = "kerberos4"
			}
			d.t.Data(off+1, "telnet.auth.krb.data", "Kerberos data", data)
			d.e.handoff(d.ctx, d.pkt, proto, data)
		}
	default:
		if data := d.rest(off); len(data) > 0 {
			d.t.Data(off, "telnet.auth.data", "Unhandled authentication data", data)
		}
	}
}

// Encryption commands, RFC 2946.
const (
	encIS = 0 + iota
	encSUPPORT
	encREPLY
	encSTART
	encEND
	encREQUESTSTART
	encREQUESTEND
	encENCKEYID
	encDECKEYID
)

var encCommandNames = []string{
	"IS",
	"SUPPORT",
	"REPLY",
	"START",
	"END",
	"REQUEST-START",
	"REQUEST-END",
	"ENC_KEYID",
	"DEC_KEYID",
}

var encTypeNames = map[byte]string{
	0:  "NULL",
	1:  "DES_CFB64",
	2:  "DES_OFB64",
	3:  "DES3_CFB64",
	4:  "DES3_OFB64",
	8:  "CAST5_40_CFB64",
	9:  "CAST5_40_OFB64",
	10: "CAST128_CFB64",
	11: "CAST128_OFB64",
	12: "AES_CCM",
}

func decodeEncryption(d *subDecoder) {
	cmd := d.u8(0)
	if int(cmd) >= len(encCommandNames) {
		d.diag(dissect.SeverityWarn, 0, 1, "Unknown encryption command")
		d.raw(d.t, 0, "Data")
		return
	}
	d.t.Field(0, 1, "telnet.enc.cmd", cmd, "Command: %s", encCommandNames[cmd])

	switch cmd {
	case encIS, encREPLY:
		if d.len() < 2 {
			return
		}
		typ := d.u8(1)
		d.t.Field(1, 1, "telnet.enc.type", typ, "Type: %s", lookup(encTypeNames, typ))
		d.raw(d.t, 2, "Type-specific data")
	case encSUPPORT:
		var names []string
		for off := 1; off < d.len(); off++ {
			typ := d.u8(off)
			d.t.Field(off, 1, "telnet.enc.type", typ, "Type: %s", lookup(encTypeNames, typ))
			names = append(names, lookup(encTypeNames, typ))
		}
		if len(names) > 0 {
			d.t.Text(1, d.len()-1, "Supported: %s", strings.Join(names, ", "))
		}
	case encSTART, encREQUESTSTART, encENCKEYID, encDECKEYID:
		d.keyID(1)
	case encEND, encREQUESTEND:
		d.extra(1)
	}
}

func (d *subDecoder) keyID(off int) {
	id := d.rest(off)
	switch {
	case len(id) == 0:
	case id[0] == 0:
		d.t.Field(off, len(id), "telnet.enc.key_id", id, "Key ID: Default key")
	default:
		d.t.Data(off, "telnet.enc.key_id", "Key ID", id)
	}
}
