package dissect

import (
	"encoding/hex"
	"fmt"
	"strings"
)

type Kind int

const (
	KindText Kind = 0 + iota
	KindField
	KindEvent
	KindDiag
)

type Severity int

const (
	SeverityNone Severity = 0 + iota
	SeverityChat
	SeverityNote
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityChat:
		return "chat"
	case SeverityNote:
		return "note"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// Record is one decoded item. Offset and Length locate it in the packet as
// captured, Depth is its nesting level below the packet root.
type Record struct {
	Kind     Kind
	Offset   int
	Length   int
	Depth    int
	Label    string
	Key      string
	Value    any
	Severity Severity
}

func (r Record) String() string {
	if r.Kind == KindDiag {
		return fmt.Sprintf("[%s] %s", r.Severity, r.Label)
	}
	return r.Label
}

// Tree appends records to a shared list. Copies of a Tree share the list but
// may differ in depth and in how offsets are placed in the packet, which
// lets a decoder working on a re-assembled or unescaped buffer report
// positions in packet terms.
type Tree struct {
	out   *[]Record
	base  int
	depth int

	// pos maps offsets in a derived buffer to offsets from base. See Remap.
	pos []int
}

func NewTree() Tree {
	return Tree{out: new([]Record)}
}

func (t Tree) Records() []Record {
	if t.out == nil {
		return nil
	}
	return *t.out
}

// Rebase returns a tree whose offsets are shifted by delta.
func (t Tree) Rebase(delta int) Tree {
	if t.pos != nil {
		t.pos = t.pos[t.clamp(delta):]
		return t
	}
	t.base += delta
	return t
}

// Remap returns a tree for a buffer derived from the packet bytes starting
// at base, where byte i of the buffer came from packet byte base+pos[i].
// pos has one more entry than the buffer, for spans that end at its end.
// A nil pos is the same as Rebase(base).
func (t Tree) Remap(base int, pos []int) Tree {
	t = t.Rebase(base)
	if pos == nil {
		return t
	}
	if t.pos != nil {
		outer := t.pos
		inner := make([]int, len(pos))
		for i, p := range pos {
			inner[i] = outer[t.clamp(p)]
		}
		pos = inner
	}
	t.pos = pos
	return t
}

func (t Tree) clamp(off int) int {
	switch {
	case off < 0:
		return 0
	case off >= len(t.pos):
		return len(t.pos) - 1
	}
	return off
}

func (t Tree) place(off, n int) (int, int) {
	if t.pos == nil {
		return t.base + off, n
	}
	start, end := t.pos[t.clamp(off)], t.pos[t.clamp(off+n)]
	return t.base + start, end - start
}

func (t Tree) add(r Record) Tree {
	r.Offset, r.Length = t.place(r.Offset, r.Length)
	r.Depth = t.depth
	*t.out = append(*t.out, r)
	t.depth++
	return t
}

// Text adds a label and returns a tree for its children.
func (t Tree) Text(off, n int, format string, args ...any) Tree {
	return t.add(Record{Kind: KindText, Offset: off, Length: n, Label: sprintf(format, args)})
}

// Field adds a typed value under key.
func (t Tree) Field(off, n int, key string, value any, format string, args ...any) Tree {
	return t.add(Record{Kind: KindField, Offset: off, Length: n, Key: key, Value: value, Label: sprintf(format, args)})
}

// Event adds a label that also belongs in the one-line summary.
func (t Tree) Event(off, n int, format string, args ...any) Tree {
	return t.add(Record{Kind: KindEvent, Offset: off, Length: n, Label: sprintf(format, args)})
}

// Data adds raw bytes, rendered as hex.
func (t Tree) Data(off int, key, name string, data []byte) Tree {
	return t.Field(off, len(data), key, data, "%s: %s", name, hex.EncodeToString(data))
}

// Diag adds an expert-info style diagnostic.
func (t Tree) Diag(sev Severity, off, n int, format string, args ...any) {
	t.add(Record{Kind: KindDiag, Offset: off, Length: n, Severity: sev, Label: sprintf(format, args)})
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Summary joins the labels of the first max event records with ", " and
// marks any that were left out with a trailing ellipsis.
func Summary(records []Record, max int) string {
	var labels []string
	more := false
	for _, r := range records {
		if r.Kind != KindEvent {
			continue
		}
		if len(labels) == max {
			more = true
			break
		}
		labels = append(labels, r.Label)
	}
	s := strings.Join(labels, ", ")
	if more {
		s += " …"
	}
	return s
}

// Diagnostics filters records down to diagnostics.
func Diagnostics(records []Record) (result []Record) {
	for _, r := range records {
		if r.Kind == KindDiag {
			result = append(result, r)
		}
	}
	return
}

// Find returns the first record whose label is label.
func Find(records []Record, label string) (Record, bool) {
	for _, r := range records {
		if r.Label == label {
			return r, true
		}
	}
	return Record{}, false
}

// FindKey returns the first record whose key is key.
func FindKey(records []Record, key string) (Record, bool) {
	for _, r := range records {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}
