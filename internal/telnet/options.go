package telnet

import "fmt"

type LengthDiscipline int

const (
	LengthNone LengthDiscipline = 0 + iota
	LengthFixed
	LengthVariable
)

func (l LengthDiscipline) String() string {
	switch l {
	case LengthNone:
		return "none"
	case LengthFixed:
		return "fixed"
	default:
		return "variable"
	}
}

type suboptionFunc func(d *subDecoder)

// Option describes how a suboption body is checked and decoded. Min is the
// exact length for LengthFixed and the minimum for LengthVariable.
type Option struct {
	Code   byte
	Name   string
	Length LengthDiscipline
	Min    int
	decode suboptionFunc
}

func (o Option) HasDecoder() bool { return o.decode != nil }

// check returns a diagnostic when n body bytes break the length discipline.
func (o Option) check(n int) (string, bool) {
	switch o.Length {
	case LengthNone:
		if n > 0 {
			return "Bogus suboption data", false
		}
	case LengthFixed:
		if n != o.Min {
			return fmt.Sprintf("Suboption parameter length is %d, should be %d", n, o.Min), false
		}
	case LengthVariable:
		if n < o.Min {
			return fmt.Sprintf("Suboption parameter length is %d, should be at least %d", n, o.Min), false
		}
	}
	return "", true
}

func none(name string) Option             { return Option{Name: name, Length: LengthNone} }
func variable(name string, min int) Option { return Option{Name: name, Length: LengthVariable, Min: min} }

func fixed(name string, n int, fn suboptionFunc) Option {
	return Option{Name: name, Length: LengthFixed, Min: n, decode: fn}
}

func decoded(name string, min int, fn suboptionFunc) Option {
	return Option{Name: name, Length: LengthVariable, Min: min, decode: fn}
}

var options = [...]Option{
	TransmitBinary:    none("Binary Transmission"),
	Echo:              none("Echo"),
	2:                 none("Reconnection"),
	SuppressGoAhead:   none("Suppress Go Ahead"),
	4:                 none("Approx Message Size Negotiation"),
	5:                 variable("Status", 1),
	6:                 none("Timing Mark"),
	7:                 none("Remote Controlled Trans and Echo"),
	8:                 none("Output Line Width"),
	9:                 none("Output Page Size"),
	10:                variable("Output Carriage-Return Disposition", 1),
	11:                variable("Output Horizontal Tab Stops", 1),
	12:                variable("Output Horizontal Tab Disposition", 1),
	13:                variable("Output Formfeed Disposition", 1),
	14:                variable("Output Vertical Tabstops", 1),
	15:                variable("Output Vertical Tab Disposition", 1),
	16:                variable("Output Linefeed Disposition", 1),
	17:                variable("Extended ASCII", 2),
	18:                none("Logout"),
	19:                variable("Byte Macro", 2),
	20:                variable("Data Entry Terminal", 2),
	21:                none("SUPDUP"),
	22:                variable("SUPDUP Output", 1),
	23:                variable("Send Location", 0),
	TerminalType:      decoded("Terminal Type", 1, decodeString),
	EndOfRecord:       none("End of Record"),
	TACACSUserID:      fixed("TACACS User Identification", 4, decodeTACACSUserID),
	OutputMarking:     decoded("Output Marking", 1, decodeOutputMarking),
	28:                variable("Terminal Location Number", 1),
	29:                variable("Telnet 3270 Regime", 1),
	30:                variable("X.3 PAD", 1),
	NAWS:              fixed("Negotiate About Window Size", 4, decodeNAWS),
	TerminalSpeed:     decoded("Terminal Speed", 1, decodeTerminalSpeed),
	RemoteFlowControl: fixed("Remote Flow Control", 1, decodeRemoteFlowControl),
	34:                variable("Linemode", 1),
	XDisplayLocation:  decoded("X Display Location", 1, decodeString),
	Environ:           decoded("Environment Option", 1, decodeEnviron),
	Authentication:    decoded("Authentication Option", 1, decodeAuthentication),
	Encryption:        decoded("Encryption Option", 1, decodeEncryption),
	NewEnviron:        decoded("New Environment Option", 1, decodeEnviron),
	TN3270E:           decoded("TN3270E", 1, decodeTN3270E),
	41:                variable("XAUTH", 1),
	Charset:           decoded("CHARSET", 1, decodeCharset),
	43:                variable("Remote Serial Port", 1),
	ComPortControl:    decoded("COM Port Control", 1, decodeComPort),
	45:                none("Suppress Local Echo"),
	StartTLS:          decoded("Start TLS", 1, decodeStartTLS),
	47:                variable("KERMIT", 1),
	48:                variable("SEND-URL", 1),
	49:                variable("FORWARD_X", 1),
}

var vmwareSerialProxy = decoded("VMware Serial Port Proxy", 1, decodeVSPC)

var unknownOption = Option{Name: "<unknown option>", Length: LengthVariable}

// LookupOption never fails: codes outside the table resolve to a generic
// entry without a decoder.
func LookupOption(code byte) Option {
	var o Option
	switch {
	case int(code) < len(options):
		o = options[code]
	case code == VMwareSerialProxy:
		o = vmwareSerialProxy
	default:
		o = unknownOption
	}
	o.Code = code
	return o
}
