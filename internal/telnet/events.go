package telnet

import (
	"net/netip"

	"github.com/stesla/tnscope/internal/event"
	"github.com/stesla/tnscope/internal/tn3270"
	"golang.org/x/text/encoding"
)

const EventNegotiation event.Name = "telnet.event.negotiation"

type Negotiation struct {
	Frame    int
	Src, Dst netip.AddrPort
	Cmd      byte
	Opt      byte
}

const EventOption event.Name = "telnet.event.option"

// OptionData reports that Performer started or stopped performing Opt.
type OptionData struct {
	Frame     int
	Opt       byte
	Performer netip.AddrPort
	Enabled   bool
}

const EventTN3270 event.Name = "telnet.event.tn3270"

type TN3270Data struct {
	Frame   int
	Session *tn3270.Session
}

const EventTN5250 event.Name = "telnet.event.tn5250"

type TN5250Data struct {
	Frame    int
	Terminal string
}

// EventSwitchProtocol means that everything after Frame on the connection
// belongs to Protocol. Via names the negotiation that caused it.
const EventSwitchProtocol event.Name = "telnet.event.switch-protocol"

type SwitchData struct {
	Frame    int
	Protocol string
	Via      string
}

// EventHandoff carries bytes meant for a decoder this package does not
// implement.
const EventHandoff event.Name = "telnet.event.handoff"

type HandoffData struct {
	Frame    int
	Protocol string
	Data     []byte
}

const EventCharset event.Name = "telnet.event.charset"

type CharsetData struct {
	Frame    int
	Name     string
	Encoding encoding.Encoding
}
