package telnet

import (
	"bytes"
	"errors"
)

// MaxUnescapeLen bounds the suboption bodies Unescape will copy.
const MaxUnescapeLen = 10240

var ErrTooLong = errors.New("telnet: buffer too long to unescape")

// Unescape collapses every IAC IAC pair in buf into a single IAC and reports
// how many bytes it dropped. Input without doubled IACs comes back unchanged.
func Unescape(buf []byte) (out []byte, removed int, err error) {
	if len(buf) > MaxUnescapeLen {
		return nil, 0, ErrTooLong
	}
	out, removed = unescape(buf)
	return
}

// unescape is Unescape without the length cap, for TN3270 records whose
// size the cap was never meant to limit.
func unescape(buf []byte) ([]byte, int) {
	if bytes.IndexByte(buf, IAC) < 0 {
		return buf, 0
	}
	out := make([]byte, 0, len(buf))
	removed := 0
	for i := 0; i < len(buf); i++ {
		out = append(out, buf[i])
		if buf[i] == IAC && i+1 < len(buf) && buf[i+1] == IAC {
			i++
			removed++
		}
	}
	return out, removed
}

// positions maps each byte of the unescaped form of buf to its offset in
// buf, with a trailing entry for len(buf). It is nil when nothing was
// removed, since the offsets then agree.
func positions(buf []byte, removed int) []int {
	if removed == 0 {
		return nil
	}
	pos := make([]int, 0, len(buf)-removed+1)
	for i := 0; i < len(buf); i++ {
		pos = append(pos, i)
		if buf[i] == IAC && i+1 < len(buf) && buf[i+1] == IAC {
			i++
		}
	}
	return append(pos, len(buf))
}

// Escape doubles every IAC in buf.
func Escape(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	for _, b := range buf {
		if b == IAC {
			out = append(out, IAC)
		}
		out = append(out, b)
	}
	return out
}
