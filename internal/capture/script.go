package capture

import (
	"bufio"
	"encoding/hex"
	"io"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Segment is one captured TCP payload.
type Segment struct {
	Frame    int
	Src, Dst netip.AddrPort
	Data     []byte
}

const maxLine = 1 << 20

// ReadScript parses a capture script: one segment per line, written as
//
//	<frame> <src ip:port> <dst ip:port> <hex>
//
// The hex may be split by spaces. Blank lines and lines starting with #
// are skipped.
func ReadScript(r io.Reader) ([]Segment, error) {
	var segs []Segment
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seg, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		segs = append(segs, seg)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return segs, nil
}

func parseLine(line string) (seg Segment, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return seg, errors.Errorf("expected frame, source and destination, got %d fields", len(fields))
	}
	if seg.Frame, err = strconv.Atoi(fields[0]); err != nil {
		return seg, errors.Wrapf(err, "bad frame %q", fields[0])
	}
	if seg.Src, err = netip.ParseAddrPort(fields[1]); err != nil {
		return seg, errors.Wrapf(err, "bad source %q", fields[1])
	}
	if seg.Dst, err = netip.ParseAddrPort(fields[2]); err != nil {
		return seg, errors.Wrapf(err, "bad destination %q", fields[2])
	}
	if seg.Data, err = hex.DecodeString(strings.Join(fields[3:], "")); err != nil {
		return seg, errors.Wrap(err, "bad payload")
	}
	return seg, nil
}
