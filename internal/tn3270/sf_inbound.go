package tn3270

import "github.com/stesla/tnscope/internal/dissect"

var queryCodeNames = map[byte]string{
	0x80: "Summary",
	0x81: "Usable Area",
	0x82: "Image",
	0x84: "Alphanumeric Partitions",
	0x85: "Character Sets",
	0x86: "Color",
	0x87: "Highlighting",
	0x88: "Reply Modes",
	0x8a: "Field Validation",
	0x8b: "MSR Control",
	0x8c: "Field Outlining",
	0x8e: "Partition Characteristics",
	0x8f: "OEM Auxiliary Device",
	0x95: "Distributed Data Management",
	0x96: "Storage Pools",
	0x97: "Document Interchange Architecture",
	0x98: "Data Chaining",
	0x99: "Auxiliary Device",
	0x9a: "3270 IPDS",
	0x9c: "Product Defined Data Stream",
	0x9d: "Anomaly Implementation",
	0x9e: "IBM Auxiliary Device",
	0x9f: "Begin/End of File",
	0xa0: "Device Characteristics",
	0xa1: "RPQ Names",
	0xa2: "Data Streams",
	0xa6: "Implicit Partition",
	0xa7: "Paper Feed Techniques",
	0xa8: "Transparency",
	0xa9: "Settable Printer Characteristics",
	0xaa: "IOCA Auxiliary Device",
	0xab: "Cooperative Processing Requestor",
	0xb0: "Segment",
	0xb1: "Procedure",
	0xb2: "Line Type",
	0xb3: "Port",
	0xb4: "Graphic Color",
	0xb5: "Extended Drawing Routine",
	0xb6: "Graphic Symbol Sets",
	0xff: "Null",
}

var queryReplies = map[byte]fieldHandler{
	0x80: qrSummary,
	0x81: qrUsableArea,
	0x84: qrAlphanumericPartitions,
	0x85: qrCharacterSets,
	0x86: qrPairs("tn3270.qr.color", "Color", true),
	0x87: qrPairs("tn3270.qr.highlight", "Highlighting", false),
	0x88: qrReplyModes,
	0x8a: qrFieldValidation,
	0x8c: qrFieldOutlining,
	0x95: qrDDM,
	0xa1: qrRPQNames,
	0xa6: qrImplicitPartition,
	0xa8: qrPairs("tn3270.qr.transparency", "Transparency", false),
	0xff: func(*decoder, dissect.Tree, int, int) int { return 0 },
}

func init() {
	inboundFields[0x80] = fieldEntry{"Inbound 3270DS", sfInbound3270DS}
	inboundFields[0x0f22] = fieldEntry{"Exception/Status", sfExceptionStatus}
	inboundFields[0x0fb1] = fieldEntry{"Inbound Text Header", sfTextHeader}
	inboundFields[0x1031] = fieldEntry{"Recovery Data", sfRecoveryData}

	for q, name := range queryCodeNames {
		fn, ok := queryReplies[q]
		if !ok {
			fn = sfData
		}
		inboundFields[0x8100|uint16(q)] = fieldEntry{"Query Reply (" + name + ")", fn}
	}
}

func sfInbound3270DS(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	return 1 + d.inbound(t, off+1, off+n)
}

var exceptionStatus = map[byte]sdp{
	0x01: {"Exception Report", 0, func(d *decoder, t dissect.Tree, off, n int) {
		if n < 2 {
			d.raw(t, off, n, "Value")
			return
		}
		d.u16Field(t, off, "tn3270.exception_code", "Exception Code")
		d.raw(t, off+2, n-2, "Value")
	}},
	0x02: {"Status Report", 0, func(d *decoder, t dissect.Tree, off, n int) {
		if n < 2 {
			d.raw(t, off, n, "Value")
			return
		}
		d.u16Field(t, off, "tn3270.status_code", "Status Code")
		d.raw(t, off+2, n-2, "Value")
	}},
}

func sfExceptionStatus(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.partitionID(t, off)
	return 1 + d.sdps(t, off+1, n-1, exceptionStatus)
}

func sfRecoveryData(d *decoder, t dissect.Tree, off, n int) int {
	if n < 3 {
		return 0
	}
	d.byteField(t, off, "tn3270.reserved", "Reserved")
	d.u16Field(t, off+1, "tn3270.recovery.page", "Page")
	d.raw(t, off+3, n-3, "Recovery Data")
	return n
}

func qrSummary(d *decoder, t dissect.Tree, off, n int) int {
	for i := 0; i < n; i++ {
		q := d.u8(off + i)
		t.Field(off+i, 1, "tn3270.qcode", q, "Supported: %s", lookup(queryCodeNames, q))
	}
	return n
}

var usableAreaUnits = [...]string{"Inches", "Millimeters"}

func qrUsableArea(d *decoder, t dissect.Tree, off, n int) int {
	const size = 19
	if n < size {
		return 0
	}
	d.byteField(t, off, "tn3270.ua.flags1", "Flags 1")
	d.byteField(t, off+1, "tn3270.ua.flags2", "Flags 2")
	d.u16Field(t, off+2, "tn3270.ua.width", "Width")
	d.u16Field(t, off+4, "tn3270.ua.height", "Height")
	units := d.u8(off + 6)
	t.Field(off+6, 1, "tn3270.ua.units", units, "Units: %s", tableName(usableAreaUnits[:], units))
	xr, _ := d.c.Uint32(off + 7)
	t.Field(off+7, 4, "tn3270.ua.xr", xr, "Horizontal Distance: 0x%08x", xr)
	yr, _ := d.c.Uint32(off + 11)
	t.Field(off+11, 4, "tn3270.ua.yr", yr, "Vertical Distance: 0x%08x", yr)
	d.byteField(t, off+15, "tn3270.ua.aw", "Cell Width")
	d.byteField(t, off+16, "tn3270.ua.ah", "Cell Height")
	d.u16Field(t, off+17, "tn3270.ua.buffsz", "Buffer Size")
	d.raw(t, off+size, n-size, "Additional Data")
	return n
}

func qrAlphanumericPartitions(d *decoder, t dissect.Tree, off, n int) int {
	if n < 4 {
		return 0
	}
	d.byteField(t, off, "tn3270.ap.na", "Maximum Partitions")
	d.u16Field(t, off+1, "tn3270.ap.m", "Total Storage")
	d.byteField(t, off+3, "tn3270.ap.flags", "Flags")
	return 4
}

func qrCharacterSets(d *decoder, t dissect.Tree, off, n int) int {
	const size = 9
	if n < size {
		return 0
	}
	d.byteField(t, off, "tn3270.cs.flags1", "Flags 1")
	d.byteField(t, off+1, "tn3270.cs.flags2", "Flags 2")
	d.byteField(t, off+2, "tn3270.cs.sdw", "Default Cell Width")
	d.byteField(t, off+3, "tn3270.cs.sdh", "Default Cell Height")
	form, _ := d.c.Uint32(off + 4)
	t.Field(off+4, 4, "tn3270.cs.form", form, "Supported Formats: 0x%08x", form)
	d.byteField(t, off+8, "tn3270.cs.dl", "Descriptor Length")
	d.raw(t, off+size, n-size, "Descriptors")
	return n
}

// qrPairs decodes a count followed by that many attribute/value pairs,
// optionally preceded by a flags byte.
func qrPairs(key, label string, flags bool) fieldHandler {
	return func(d *decoder, t dissect.Tree, off, n int) int {
		at := off
		if flags {
			if n < 1 {
				return 0
			}
			d.byteField(t, at, key+".flags", "Flags")
			at++
		}
		if at-off >= n {
			return at - off
		}
		np := int(d.u8(at))
		t.Field(at, 1, key+".np", np, "Number of Pairs: %d", np)
		at++
		for i := 0; i < np && off+n-at >= 2; i++ {
			a, v := d.u8(at), d.u8(at+1)
			t.Field(at, 2, key, [2]byte{a, v}, "%s Pair: 0x%02x = 0x%02x", label, a, v)
			at += 2
		}
		return at - off
	}
}

func qrReplyModes(d *decoder, t dissect.Tree, off, n int) int {
	for i := 0; i < n; i++ {
		m := d.u8(off + i)
		t.Field(off+i, 1, "tn3270.qr.reply_mode", m, "Mode: %s", tableName(replyModeNames[:], m))
	}
	return n
}

func qrFieldValidation(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.qr.validation", "Supported Types")
	return 1
}

func qrFieldOutlining(d *decoder, t dissect.Tree, off, n int) int {
	if n < 1 {
		return 0
	}
	d.byteField(t, off, "tn3270.qr.outlining", "Flags")
	d.raw(t, off+1, n-1, "Separation")
	return n
}

func qrDDM(d *decoder, t dissect.Tree, off, n int) int {
	const size = 8
	if n < size {
		return 0
	}
	d.u16Field(t, off, "tn3270.ddm.flags", "Flags")
	d.u16Field(t, off+2, "tn3270.ddm.limin", "Maximum Inbound")
	d.u16Field(t, off+4, "tn3270.ddm.limout", "Maximum Outbound")
	d.byteField(t, off+6, "tn3270.ddm.nss", "Subsets")
	d.byteField(t, off+7, "tn3270.ddm.ddmss", "DDM Subset ID")
	d.raw(t, off+size, n-size, "Additional Data")
	return n
}

func qrRPQNames(d *decoder, t dissect.Tree, off, n int) int {
	if n < 9 {
		return 0
	}
	dev, _ := d.c.Uint32(off)
	t.Field(off, 4, "tn3270.rpq.device", dev, "Device Type: 0x%08x", dev)
	model, _ := d.c.Uint32(off + 4)
	t.Field(off+4, 4, "tn3270.rpq.model", model, "Model: 0x%08x", model)
	l := int(d.u8(off + 8))
	t.Field(off+8, 1, "tn3270.rpq.length", l, "Name Length: %d", l)
	// The length includes itself.
	if l < 1 || l-1 > n-9 {
		return 9
	}
	d.ebcdicData(t, off+9, off+8+l, "RPQ Name")
	return 8 + l
}

var implicitPartition = map[byte]sdp{
	0x01: {"Implicit Partition Sizes", 11, func(d *decoder, t dissect.Tree, off, n int) {
		d.byteField(t, off, "tn3270.ip.flags", "Flags")
		d.u16Field(t, off+1, "tn3270.ip.wd", "Default Width")
		d.u16Field(t, off+3, "tn3270.ip.hd", "Default Height")
		d.u16Field(t, off+5, "tn3270.ip.walt", "Alternate Width")
		d.u16Field(t, off+7, "tn3270.ip.halt", "Alternate Height")
	}},
}

func qrImplicitPartition(d *decoder, t dissect.Tree, off, n int) int {
	if n < 2 {
		return 0
	}
	d.u16Field(t, off, "tn3270.ip.reserved", "Reserved")
	return 2 + d.sdps(t, off+2, n-2, implicitPartition)
}
