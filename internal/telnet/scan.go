package telnet

import "bytes"

// FindUnescapedIAC returns the offset of the first IAC in buf[from:end]
// that is not half of an IAC IAC pair, or -1. An IAC in the last byte is
// reported as not found since its command byte has not arrived yet.
func FindUnescapedIAC(buf []byte, from, end int) int {
	if end > len(buf) {
		end = len(buf)
	}
	for from < end {
		i := bytes.IndexByte(buf[from:end], IAC)
		if i < 0 {
			return -1
		}
		at := from + i
		if at+1 >= end {
			return -1
		}
		if buf[at+1] != IAC {
			return at
		}
		from = at + 2
	}
	return -1
}

// danglingIAC reports whether buf[from:end] ends in an IAC that is not
// half of an IAC IAC pair.
func danglingIAC(buf []byte, from, end int) bool {
	n := 0
	for i := end - 1; i >= from && buf[i] == IAC; i-- {
		n++
	}
	return n%2 == 1
}
