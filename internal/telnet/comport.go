package telnet

import (
	"strings"

	"github.com/stesla/tnscope/internal/dissect"
)

// RFC 2217 subcommands. Servers answer with the same code plus 100.
const (
	comSignature = 0 + iota
	comSetBaudRate
	comSetDataSize
	comSetParity
	comSetStopSize
	comSetControl
	comNotifyLineState
	comNotifyModemState
	comFlowControlSuspend
	comFlowControlResume
	comSetLineStateMask
	comSetModemStateMask
	comPurgeData

	comServerBase = 100
)

var (
	comDataSizes = []string{"Request", "<invalid>", "<invalid>", "<invalid>", "<invalid>", "5", "6", "7", "8"}
	comParities  = []string{"Request", "None", "Odd", "Even", "Mark", "Space"}
	comStops     = []string{"Request", "1", "2", "1.5"}
	comControl   = []string{
		"Output Flow Control Request",
		"Output Flow: None",
		"Output Flow: XON/XOFF",
		"Output Flow: CTS/RTS",
		"Break Request",
		"Break: ON",
		"Break: OFF",
		"DTR Request",
		"DTR: ON",
		"DTR: OFF",
		"RTS Request",
		"RTS: ON",
		"RTS: OFF",
		"Input Flow Control Request",
		"Input Flow: None",
		"Input Flow: XON/XOFF",
		"Input Flow: CTS/RTS",
		"Output Flow: DCD",
		"Input Flow: DTR",
		"Output Flow: DSR",
	}
	comLineStateBits = []string{
		"Data Ready",
		"Overrun Error",
		"Parity Error",
		"Framing Error",
		"Break Detected",
		"Transfer Holding Register Empty",
		"Transfer Shift Register Empty",
		"Timeout Error",
	}
	comModemStateBits = []string{"DCTS", "DDSR", "TERI", "DDCD", "CTS", "DSR", "RI", "DCD"}
	comPurges         = []string{"Purge None", "Purge RX", "Purge TX", "Purge RX/TX"}
)

func decodeComPort(d *subDecoder) {
	cmd := d.u8(0)
	source := "Client"
	if cmd >= comServerBase {
		source = "Server"
		cmd -= comServerBase
	}
	n := d.len() - 1

	// enum renders the one-byte argument of cmd through table.
	enum := func(key, what string, table []string) {
		if n < 1 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "Invalid %s Packet", what)
			return
		}
		v := d.u8(1)
		d.t.Field(1, 1, key, v, "%s %s: %s", source, what, tableName(table, v))
		d.extra(2)
	}
	mask := func(key, what, invalid string, bits []string) {
		if n < 1 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "Invalid %s Packet", invalid)
			return
		}
		v := d.u8(1)
		names := flagNames(v, bits)
		d.t.Field(1, 1, key, names, "%s %s: %s", source, what, strings.Join(names, ", "))
		d.extra(2)
	}

	switch cmd {
	case comSignature:
		if n == 0 {
			d.t.Field(0, 1, "telnet.comport.signature", "", "%s Requests Signature", source)
			return
		}
		sig := string(d.rest(1))
		d.t.Field(1, n, "telnet.comport.signature", sig, "%s Signature: %s", source, sig)
	case comSetBaudRate:
		if n < 4 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "Invalid Baud Rate Packet")
			return
		}
		baud := d.u32(1)
		if baud == 0 {
			d.t.Field(1, 4, "telnet.comport.baud_rate", baud, "%s Baud Rate Request", source)
		} else {
			d.t.Field(1, 4, "telnet.comport.baud_rate", baud, "%s Baud Rate: %d", source, baud)
		}
		d.extra(5)
	case comSetDataSize:
		enum("telnet.comport.data_size", "Data Size", comDataSizes)
	case comSetParity:
		enum("telnet.comport.parity", "Parity", comParities)
	case comSetStopSize:
		enum("telnet.comport.stop", "Stop", comStops)
	case comSetControl:
		enum("telnet.comport.control", "Control", comControl)
	case comNotifyLineState:
		mask("telnet.comport.linestate", "Line State", "Linestate", comLineStateBits)
	case comSetLineStateMask:
		mask("telnet.comport.linestate_mask", "Set Line State Mask", "Linestate", comLineStateBits)
	case comNotifyModemState:
		mask("telnet.comport.modemstate", "Modem State", "Modemstate", comModemStateBits)
	case comSetModemStateMask:
		mask("telnet.comport.modemstate_mask", "Set Modem State Mask", "Modemstate", comModemStateBits)
	case comFlowControlSuspend:
		d.t.Field(0, 1, "telnet.comport.cmd", cmd, "%s Flow Control Suspend", source)
		d.extra(1)
	case comFlowControlResume:
		d.t.Field(0, 1, "telnet.comport.cmd", cmd, "%s Flow Control Resume", source)
		d.extra(1)
	case comPurgeData:
		if n < 1 {
			d.diag(dissect.SeverityWarn, 0, d.len(), "Invalid Purge Packet")
			return
		}
		v := d.u8(1)
		d.t.Field(1, 1, "telnet.comport.purge", v, "%s %s", source, tableName(comPurges, v))
		d.extra(2)
	default:
		d.invalidSubcommand(0, d.u8(0))
	}
}
