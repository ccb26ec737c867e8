package telnet

import "fmt"

const (
	// RFC 1184
	EOF   = 236 + iota // ec
	SUSP               // ed
	ABORT              // ee
	// RFC 885
	EOR // ef
	// RFC 854
	SE   // f0
	NOP  // f1
	DM   // f2
	BRK  // f3
	IP   // f4
	AO   // f5
	AYT  // f6
	EC   // f7
	EL   // f8
	GA   // f9
	SB   // fa
	WILL // fb
	WONT // fc
	DO   // fd
	DONT // fe
	IAC  // ff
)

var commandNames = map[byte]string{
	EOF:   "End of File",
	SUSP:  "Suspend Process",
	ABORT: "Abort Process",
	EOR:   "End of Record",
	SE:    "Suboption End",
	NOP:   "No Operation",
	DM:    "Data Mark",
	BRK:   "Break",
	IP:    "Interrupt Process",
	AO:    "Abort Output",
	AYT:   "Are You There?",
	EC:    "Escape Character",
	EL:    "Erase Line",
	GA:    "Go Ahead",
}

var negotiationNames = map[byte]string{
	WILL: "Will",
	WONT: "Won't",
	DO:   "Do",
	DONT: "Don't",
}

// CommandName names the command byte that follows an IAC.
func CommandName(cmd byte) string {
	switch cmd {
	case SB:
		return "Suboption"
	case IAC:
		return "Data Byte 255"
	}
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	if name, ok := negotiationNames[cmd]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", cmd)
}

const (
	TransmitBinary    = 0   // RFC 856
	Echo              = 1   // RFC 857
	SuppressGoAhead   = 3   // RFC 858
	TerminalType      = 24  // RFC 930
	EndOfRecord       = 25  // RFC 885
	TACACSUserID      = 26  // RFC 927
	OutputMarking     = 27  // RFC 933
	NAWS              = 31  // RFC 1073
	TerminalSpeed     = 32  // RFC 1079
	RemoteFlowControl = 33  // RFC 1372
	XDisplayLocation  = 35  // RFC 1096
	Environ           = 36  // RFC 1408
	Authentication    = 37  // RFC 2941
	Encryption        = 38  // RFC 2946
	NewEnviron        = 39  // RFC 1572
	TN3270E           = 40  // RFC 2355
	Charset           = 42  // RFC 2066
	ComPortControl    = 44  // RFC 2217
	StartTLS          = 46
	VMwareSerialProxy = 232
)

const (
	CharsetRequest = 1 + iota
	CharsetAccepted
	CharsetRejected
	CharsetTTableIs
	CharsetTTableRejected
	CharsetTTableAck
	CharsetTTableNak
)
