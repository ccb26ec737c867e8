package tn3270

import "github.com/stesla/tnscope/internal/dissect"

func init() {
	for id, e := range map[uint16]fieldEntry{
		0x00:   {"Reset Partition", sfPartitionOnly},
		0x01:   {"Read Partition", sfReadPartition},
		0x03:   {"Erase/Reset", sfEraseReset},
		0x06:   {"Load Programmed Symbols", sfLoadProgrammedSymbols},
		0x09:   {"Set Reply Mode", sfSetReplyMode},
		0x0b:   {"Set Window Origin", sfSetWindowOrigin},
		0x0c:   {"Create Partition", sfCreatePartition},
		0x0d:   {"Destroy Partition", sfPartitionOnly},
		0x0e:   {"Activate Partition", sfPartitionOnly},
		0x40:   {"Outbound 3270DS", sfOutbound3270DS},
		0x41:   {"SCS Data", sfPartitionData},
		0x4a:   {"Select Format Group", sfPartitionName},
		0x4b:   {"Present Absolute Format", sfPresentFormat},
		0x4c:   {"Present Relative Format", sfPresentFormat},
		0x0f01: {"Set MSR Control", sfSetMSRControl},
		0x0f04: {"Select Color Table", sfSelectColorTable},
		0x0f05: {"Load Color Table", sfData},
		0x0f07: {"Load Line Type", sfData},
		0x0f08: {"Set Partition Characteristics", sfSetPartitionCharacteristics},
		0x0f0a: {"Modify Partition", sfPartitionData},
		0x0f24: {"Load Format Storage", sfData},
		0x0f71: {"Outbound Text Header", sfTextHeader},
		0x0f84: {"Set Printer Characteristics", sfSetPrinterCharacteristics},
		0x0f85: {"Begin/End of File", sfBeginEndOfFile},
		0x1030: {"Request Recovery Data", sfReserved},
		0x1032: {"Set Checkpoint Interval", sfSetCheckpointInterval},
		0x1033: {"Restart", sfRestart},
	} {
		outboundFields[id] = e
	}

	for id, e := range map[uint16]fieldEntry{
		0x0f02: {"Destination/Origin", sfDestinationOrigin},
		0x0f0f: {"Object Data", sfObject},
		0x0f10: {"Object Picture", sfObject},
		0x0f11: {"Object Control", sfObject},
		0x0f1f: {"OEM Data", sfObject},
		0x0f21: {"Data Chain", sfDataChain},
		0x0f83: {"Select IPDS Mode", sfData},
		0x0fc1: {"Type 1 Text", sfType1Text},
		0x1034: {"Save/Restore Format", sfSaveRestoreFormat},
	} {
		sharedFields[id] = e
	}
}

func sfData(d *decoder, t dissect.Tree, off, n int) int {
	d.raw(t, off, n, "Data")
	return n
}

func sfReserved(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.reserved", "Reserved")
	return 1
}

func sfPartitionOnly(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	return 1
}

func sfPartitionData(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	d.raw(t, off+1, n-1, "Data")
	return n
}

func sfPartitionName(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	d.ebcdicData(t, off+1, off+n, "Name")
	return n
}

var readPartitionTypes = map[byte]string{
	0x02: "Query",
	0x03: "Query List",
	0x6e: "Read Modified All",
	0xf2: "Read Buffer",
	0xf6: "Read Modified",
}

var queryListTypes = map[byte]string{
	0x00: "QCODE List",
	0x40: "Equivalent + QCODE List",
	0x80: "All",
}

func sfReadPartition(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	typ := d.u8(off + 1)
	t.Field(off+1, 1, "tn3270.read_partition_type", typ, "Type: %s", lookup(readPartitionTypes, typ))
	if typ != 0x03 || n < 3 {
		return 2
	}
	req := d.u8(off + 2)
	t.Field(off+2, 1, "tn3270.query_list_type", req, "Request Type: %s", lookup(queryListTypes, req))
	for i := 3; i < n; i++ {
		q := d.u8(off + i)
		t.Field(off+i, 1, "tn3270.qcode", q, "QCODE: %s", lookup(queryCodeNames, q))
	}
	return n
}

func sfEraseReset(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	flags := d.u8(off)
	alternate := flags&0x80 != 0
	t.Field(off, 1, "tn3270.erase_reset", flags, "Flags: 0x%02x (use %s size)", flags, map[bool]string{true: "alternate", false: "default"}[alternate])
	if alternate {
		d.sess.UseAlternate()
	} else {
		d.sess.UseDefault()
	}
	return 1
}

func sfLoadProgrammedSymbols(d *decoder, t dissect.Tree, off, n int) int {
	if n < 3 {
		return 0
	}
	d.byteField(t, off, "tn3270.lps.flags", "Flags")
	d.byteField(t, off+1, "tn3270.lps.lcid", "Local Character Set ID")
	d.byteField(t, off+2, "tn3270.lps.char", "Beginning Code Point")
	d.raw(t, off+3, n-3, "Symbol Definitions")
	return n
}

var replyModeNames = [...]string{"Field", "Extended Field", "Character"}

func sfSetReplyMode(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	mode := d.u8(off + 1)
	t.Field(off+1, 1, "tn3270.reply_mode", mode, "Mode: %s", tableName(replyModeNames[:], mode))
	for i := 2; i < n; i++ {
		a := d.u8(off + i)
		t.Field(off+i, 1, "tn3270.reply_mode_attr", a, "Attribute Type: %s", lookup(attrNames, a))
	}
	return n
}

func sfSetWindowOrigin(d *decoder, t dissect.Tree, off, n int) int {
	if n < 5 {
		return 0
	}
	d.partitionID(t, off)
	d.u16Field(t, off+1, "tn3270.window_row", "Window Origin Row")
	d.u16Field(t, off+3, "tn3270.window_col", "Window Origin Column")
	return 5
}

func sfCreatePartition(d *decoder, t dissect.Tree, off, n int) int {
	const size = 23
	if n < size {
		return 0
	}
	d.partitionID(t, off)
	d.byteField(t, off+1, "tn3270.cp.uom", "Unit of Measure")
	d.byteField(t, off+2, "tn3270.cp.flags", "Flags")
	d.u16Field(t, off+3, "tn3270.cp.rv", "Viewport Row Origin")
	d.u16Field(t, off+5, "tn3270.cp.cv", "Viewport Column Origin")
	d.u16Field(t, off+7, "tn3270.cp.hv", "Viewport Rows")
	d.u16Field(t, off+9, "tn3270.cp.wv", "Viewport Columns")
	d.u16Field(t, off+11, "tn3270.cp.rw", "Window Row Origin")
	d.u16Field(t, off+13, "tn3270.cp.cw", "Window Column Origin")
	rows := d.u16Field(t, off+15, "tn3270.cp.rs", "Presentation Space Rows")
	d.u16Field(t, off+17, "tn3270.cp.res", "Reserved")
	cols := d.u16Field(t, off+19, "tn3270.cp.cs", "Presentation Space Columns")
	d.u16Field(t, off+21, "tn3270.cp.res2", "Reserved")
	if rows > 0 && cols > 0 {
		d.sess.Rows, d.sess.Cols = int(rows), int(cols)
	}
	return size
}

func sfOutbound3270DS(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	return 1 + d.outbound(t, off+1, off+n)
}

func sfPresentFormat(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	d.byteField(t, off+1, "tn3270.format.flags", "Flags")
	d.ebcdicData(t, off+2, off+n, "Format Name")
	return n
}

var msrTypes = map[byte]string{
	0x01: "Communication Check",
	0x02: "Indicator",
	0x04: "Audible Alarm",
}

func sfSetMSRControl(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	typ := d.u8(off + 1)
	t.Field(off+1, 1, "tn3270.msr_type", typ, "MSR Type: %s", lookup(msrTypes, typ))
	d.raw(t, off+2, n-2, "Control Data")
	return n
}

func sfSelectColorTable(d *decoder, t dissect.Tree, off, n int) int {
	if n < 3 {
		return 0
	}
	d.u16Field(t, off, "tn3270.reserved", "Reserved")
	d.byteField(t, off+2, "tn3270.color_table", "Color Table ID")
	return 3
}

var partitionCharacteristics = map[byte]sdp{
	0x01: {"Viewport Outline", 6, func(d *decoder, t dissect.Tree, off, n int) {
		d.byteField(t, off, "tn3270.spc.outline", "Outline Flags")
		d.raw(t, off+1, n-1, "Reserved")
	}},
	0x03: {"Enable User Call-Up", 3, func(d *decoder, t dissect.Tree, off, n int) {
		d.byteField(t, off, "tn3270.spc.callup", "Flags")
	}},
	0x04: {"Select Base Character Set", 3, func(d *decoder, t dissect.Tree, off, n int) {
		d.byteField(t, off, "tn3270.spc.lcid", "Local Character Set ID")
	}},
	0x08: {"Character Cell Size", 6, func(d *decoder, t dissect.Tree, off, n int) {
		d.u16Field(t, off, "tn3270.spc.cell_width", "Cell Width")
		d.u16Field(t, off+2, "tn3270.spc.cell_height", "Cell Height")
	}},
}

func sfSetPartitionCharacteristics(d *decoder, t dissect.Tree, off, n int) int {
	if n < 3 {
		return 0
	}
	d.partitionID(t, off)
	d.u16Field(t, off+1, "tn3270.reserved", "Reserved")
	return 3 + d.sdps(t, off+3, n-3, partitionCharacteristics)
}

func sfTextHeader(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	d.byteField(t, off+1, "tn3270.text.operation", "Operation")
	d.raw(t, off+2, n-2, "Header Data")
	return n
}

var printerCharacteristics = map[byte]sdp{
	0x01: {"Early Print Complete", 3, func(d *decoder, t dissect.Tree, off, n int) {
		d.byteField(t, off, "tn3270.spc.epc", "Flags")
	}},
	0x02: {"Printer Device Characteristics", 0, nil},
}

func sfSetPrinterCharacteristics(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.printer.flags", "Flags")
	return 1 + d.sdps(t, off+1, n-1, printerCharacteristics)
}

func sfBeginEndOfFile(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.partitionID(t, off)
	flags := d.u8(off + 1)
	which := "Begin"
	if flags&0x40 != 0 {
		which = "End"
	}
	t.Field(off+1, 1, "tn3270.bef.flags", flags, "Flags: 0x%02x (%s of file)", flags, which)
	return 2
}

func sfSetCheckpointInterval(d *decoder, t dissect.Tree, off, n int) int {
	if n < 3 {
		return 0
	}
	d.byteField(t, off, "tn3270.reserved", "Reserved")
	d.u16Field(t, off+1, "tn3270.checkpoint_interval", "Interval")
	return 3
}

var restartParameters = map[byte]sdp{
	0x01: {"Restart Page", 6, func(d *decoder, t dissect.Tree, off, n int) {
		d.u16Field(t, off, "tn3270.restart.page", "Start Page")
		d.u16Field(t, off+2, "tn3270.restart.copy", "Start Copy")
	}},
}

func sfRestart(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.restart.flags", "Flags")
	return 1 + d.sdps(t, off+1, n-1, restartParameters)
}

func sfDestinationOrigin(d *decoder, t dissect.Tree, off, n int) int {
	if n < 4 {
		return 0
	}
	d.byteField(t, off, "tn3270.do.flags", "Flags")
	d.byteField(t, off+1, "tn3270.reserved", "Reserved")
	d.u16Field(t, off+2, "tn3270.do.id", "Destination/Origin ID")
	return 4
}

func sfObject(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.object.flags", "Flags")
	d.raw(t, off+1, n-1, "Object Data")
	return n
}

var chainGroups = [...]string{"Continue", "Last", "First", "Only"}

func sfDataChain(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	flags := d.u8(off)
	inbound := "Inbound data allowed"
	if flags&0x30 == 0x30 {
		inbound = "Inbound data not allowed"
	}
	t.Field(off, 1, "tn3270.data_chain", flags, "Data Chain: %s, %s", chainGroups[flags>>6], inbound)
	return 1
}

func sfType1Text(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	d.ebcdicData(t, off+1, off+n, "Text")
	return n
}

var saveRestoreOps = map[byte]string{
	0x01: "Save",
	0x02: "Restore",
	0x03: "Query Save/Restore",
}

func sfSaveRestoreFormat(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.byteField(t, off, "tn3270.srf.flags", "Flags")
	op := d.u8(off + 1)
	t.Field(off+1, 1, "tn3270.srf.op", op, "Operand: %s", lookup(saveRestoreOps, op))
	d.raw(t, off+2, n-2, "Format Data")
	return n
}
