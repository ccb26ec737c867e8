package tn3270

import "fmt"

const (
	DefaultRows = 24
	DefaultCols = 80
)

// Alternate screen sizes of the 3278/3279 models.
var modelSizes = map[int][2]int{
	2: {24, 80},
	3: {32, 80},
	4: {43, 80},
	5: {27, 132},
}

// Geometry is the screen size buffer addresses are resolved against. Rows
// and Cols follow Erase/Write, Erase/Write Alternate, Erase/Reset and Create
// Partition; AltRows and AltCols come from the terminal model and never
// change.
type Geometry struct {
	Rows, Cols       int
	AltRows, AltCols int
}

func NewGeometry(model int) Geometry {
	g := Geometry{Rows: DefaultRows, Cols: DefaultCols, AltRows: DefaultRows, AltCols: DefaultCols}
	if size, ok := modelSizes[model]; ok {
		g.AltRows, g.AltCols = size[0], size[1]
	}
	return g
}

func (g *Geometry) UseDefault() {
	g.Rows, g.Cols = DefaultRows, DefaultCols
}

func (g *Geometry) UseAlternate() {
	g.Rows, g.Cols = g.AltRows, g.AltCols
}

type AddressMode int

const (
	Address14Bit AddressMode = 0 + iota
	Address12Bit
	AddressReserved
)

func (m AddressMode) String() string {
	switch m {
	case Address14Bit:
		return "14-bit binary"
	case Address12Bit:
		return "12-bit coded"
	default:
		return "reserved"
	}
}

type Address struct {
	Raw   uint16
	Mode  AddressMode
	Value int
	Row   int
	Col   int
}

// DecodeAddress resolves a two-byte buffer address. The top two bits select
// the encoding: 00 is 14-bit binary, 01 and 11 are 12-bit coded and share
// one path, 10 is reserved. Row and column are 1-based.
func DecodeAddress(raw uint16, g Geometry) Address {
	a := Address{Raw: raw}
	switch raw >> 14 {
	case 0:
		a.Mode = Address14Bit
		a.Value = int(raw & 0x3fff)
	case 1, 3:
		a.Mode = Address12Bit
		a.Value = int(raw>>8&0x3f)<<6 | int(raw&0x3f)
	default:
		a.Mode = AddressReserved
		return a
	}
	if g.Cols > 0 {
		a.Row = a.Value/g.Cols + 1
		a.Col = a.Value%g.Cols + 1
	}
	return a
}

func (a Address) String() string {
	if a.Mode == AddressReserved {
		return fmt.Sprintf("Reserved (0x%04x)", a.Raw)
	}
	return fmt.Sprintf("Row %d, Column %d (%s, %d)", a.Row, a.Col, a.Mode, a.Value)
}
