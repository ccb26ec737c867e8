package telnet

import "net/netip"

type qState int

const (
	qNo qState = 0 + iota
	qYes
	qWantYesOffered
	qWantYesAsked
)

type optionKey struct {
	opt       byte
	performer netip.AddrPort
}

// optionLedger follows option negotiation from the outside. Each option is
// tracked per performer: the side that sends WILL, or is sent DO. The zero
// value has every option off.
type optionLedger struct {
	m map[optionKey]qState
}

func (l *optionLedger) enabled(opt byte, performer netip.AddrPort) bool {
	return l.m[optionKey{opt, performer}] == qYes
}

// receive applies one negotiation command sent from src to dst and reports
// whether the option's enabled state changed, along with its performer.
func (l *optionLedger) receive(cmd, opt byte, src, dst netip.AddrPort) (performer netip.AddrPort, changed bool) {
	switch cmd {
	case WILL, WONT:
		performer = src
	case DO, DONT:
		performer = dst
	default:
		return
	}
	if l.m == nil {
		l.m = map[optionKey]qState{}
	}
	key := optionKey{opt, performer}
	before := l.m[key]
	state := before

	switch cmd {
	case WILL:
		switch state {
		case qNo:
			state = qWantYesOffered
		case qWantYesAsked:
			state = qYes
		}
	case DO:
		switch state {
		case qNo:
			state = qWantYesAsked
		case qWantYesOffered:
			state = qYes
		}
	case WONT, DONT:
		state = qNo
	}

	l.m[key] = state
	changed = (before == qYes) != (state == qYes)
	return
}
