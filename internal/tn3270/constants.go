package tn3270

// 3270 commands, channel (CCW) and SNA forms.
const (
	CmdWrite      = 0x01
	CmdReadBuffer = 0x02
	CmdNOP        = 0x03
	CmdEraseWrite = 0x05
	CmdReadMod    = 0x06
	CmdEWA        = 0x0d
	CmdRMA        = 0x0e
	CmdEAU        = 0x0f
	CmdWSF        = 0x11

	CmdSNAWrite      = 0xf1
	CmdSNAReadBuffer = 0xf2
	CmdSNAWSF        = 0xf3
	CmdSNAEraseWrite = 0xf5
	CmdSNAReadMod    = 0xf6
	CmdSNAEWA        = 0x7e
	CmdSNARMA        = 0x6e
	CmdSNAEAU        = 0x6f
)

var commandNames = map[byte]string{
	CmdWrite:         "Write",
	CmdReadBuffer:    "Read Buffer",
	CmdNOP:           "No Operation",
	CmdEraseWrite:    "Erase/Write",
	CmdReadMod:       "Read Modified",
	CmdEWA:           "Erase/Write Alternate",
	CmdRMA:           "Read Modified All",
	CmdEAU:           "Erase All Unprotected",
	CmdWSF:           "Write Structured Field",
	CmdSNAWrite:      "Write",
	CmdSNAReadBuffer: "Read Buffer",
	CmdSNAWSF:        "Write Structured Field",
	CmdSNAEraseWrite: "Erase/Write",
	CmdSNAReadMod:    "Read Modified",
	CmdSNAEWA:        "Erase/Write Alternate",
	CmdSNARMA:        "Read Modified All",
	CmdSNAEAU:        "Erase All Unprotected",
}

// Write Control Character bits.
const (
	wccReset         = 0x40
	wccPrinterMask   = 0x30
	wccStartPrinter  = 0x08
	wccSoundAlarm    = 0x04
	wccKeyboardReset = 0x02
	wccResetMDT      = 0x01
)

var wccPrinterNames = [...]string{
	"NL/EM/CR in data stream",
	"40-character line",
	"64-character line",
	"80-character line",
}

// Orders.
const (
	OrderPT  = 0x05
	OrderGE  = 0x08
	OrderSBA = 0x11
	OrderEUA = 0x12
	OrderIC  = 0x13
	OrderSF  = 0x1d
	OrderSA  = 0x28
	OrderSFE = 0x29
	OrderMF  = 0x2c
	OrderRA  = 0x3c
)

var orderNames = map[byte]string{
	OrderPT:  "Program Tab",
	OrderGE:  "Graphic Escape",
	OrderSBA: "Set Buffer Address",
	OrderEUA: "Erase Unprotected to Address",
	OrderIC:  "Insert Cursor",
	OrderSF:  "Start Field",
	OrderSA:  "Set Attribute",
	OrderSFE: "Start Field Extended",
	OrderMF:  "Modify Field",
	OrderRA:  "Repeat to Address",
}

// Format control orders travel as ordinary data characters.
var formatControls = map[byte]string{
	0x00: "NUL",
	0x0c: "FF",
	0x0d: "CR",
	0x15: "NL",
	0x19: "EM",
	0x1c: "DUP",
	0x1e: "FM",
	0x3f: "SUB",
	0xff: "EO",
}

// Attention identifiers.
const (
	AIDNoAID           = 0x60
	AIDStructuredField = 0x88
	AIDReadPartition   = 0x61
	AIDTrigger         = 0x7f
	AIDSysReq          = 0xf0
	AIDPA1             = 0x6c
	AIDPA2             = 0x6e
	AIDPA3             = 0x6b
	AIDClear           = 0x6d
	AIDClearPartition  = 0x6a
	AIDEnter           = 0x7d
)

var aidNames = map[byte]string{
	AIDNoAID:           "No AID generated",
	AIDStructuredField: "Structured field",
	AIDReadPartition:   "Read partition",
	AIDTrigger:         "Trigger action",
	AIDSysReq:          "Test Req and Sys Req",
	AIDPA1:             "PA1",
	AIDPA2:             "PA2 (CNCL)",
	AIDPA3:             "PA3",
	AIDClear:           "Clear",
	AIDClearPartition:  "Clear partition",
	AIDEnter:           "Enter",
	0xe6:               "Operator ID reader",
	0xe7:               "Mag card reader",
	0xf1:               "PF1",
	0xf2:               "PF2",
	0xf3:               "PF3",
	0xf4:               "PF4",
	0xf5:               "PF5",
	0xf6:               "PF6",
	0xf7:               "PF7",
	0xf8:               "PF8",
	0xf9:               "PF9",
	0x7a:               "PF10",
	0x7b:               "PF11",
	0x7c:               "PF12",
	0xc1:               "PF13",
	0xc2:               "PF14",
	0xc3:               "PF15",
	0xc4:               "PF16",
	0xc5:               "PF17",
	0xc6:               "PF18",
	0xc7:               "PF19",
	0xc8:               "PF20",
	0xc9:               "PF21",
	0x4a:               "PF22",
	0x4b:               "PF23",
	0x4c:               "PF24",
}

// Short-read AIDs carry nothing after the AID byte.
func shortRead(aid byte) bool {
	switch aid {
	case AIDPA1, AIDPA2, AIDPA3, AIDClear, AIDClearPartition, AIDSysReq:
		return true
	}
	return false
}

// Extended attribute types used by SFE, SA and MF.
const (
	attrAll          = 0x00
	attrField        = 0xc0
	attrHighlight    = 0x41
	attrForeground   = 0x42
	attrCharset      = 0x43
	attrBackground   = 0x45
	attrTransparency = 0x46
	attrValidation   = 0xc1
	attrOutlining    = 0xc2
)

var attrNames = map[byte]string{
	attrAll:          "All character attributes",
	attrField:        "3270 Field attribute",
	attrHighlight:    "Extended highlighting",
	attrForeground:   "Foreground color",
	attrCharset:      "Character set",
	attrBackground:   "Background color",
	attrTransparency: "Transparency",
	attrValidation:   "Field validation",
	attrOutlining:    "Field outlining",
}

var highlightNames = map[byte]string{
	0x00: "Default",
	0xf0: "Normal",
	0xf1: "Blink",
	0xf2: "Reverse video",
	0xf4: "Underscore",
	0xf8: "Intensify",
}

var colorNames = map[byte]string{
	0x00: "Default",
	0xf0: "Neutral/Black",
	0xf1: "Blue",
	0xf2: "Red",
	0xf3: "Pink",
	0xf4: "Green",
	0xf5: "Turquoise",
	0xf6: "Yellow",
	0xf7: "Neutral/White",
	0xf8: "Black",
	0xf9: "Deep Blue",
	0xfa: "Orange",
	0xfb: "Purple",
	0xfc: "Pale Green",
	0xfd: "Pale Turquoise",
	0xfe: "Grey",
	0xff: "White",
}

// TN3270E header data types (RFC 2355).
const (
	DataType3270     = 0x00
	DataTypeSCS      = 0x01
	DataTypeResponse = 0x02
	DataTypeBind     = 0x03
	DataTypeUnbind   = 0x04
	DataTypeNVT      = 0x05
	DataTypeRequest  = 0x06
	DataTypeSSCPLU   = 0x07
	DataTypePrintEOJ = 0x08
)

var dataTypeNames = map[byte]string{
	DataType3270:     "3270-DATA",
	DataTypeSCS:      "SCS-DATA",
	DataTypeResponse: "RESPONSE",
	DataTypeBind:     "BIND-IMAGE",
	DataTypeUnbind:   "UNBIND",
	DataTypeNVT:      "NVT-DATA",
	DataTypeRequest:  "REQUEST",
	DataTypeSSCPLU:   "SSCP-LU-DATA",
	DataTypePrintEOJ: "PRINT-EOJ",
}

var responseFlagNames = [...]string{"NO-RESPONSE", "ERROR-RESPONSE", "ALWAYS-RESPONSE"}
var responseTypeFlagNames = [...]string{"POSITIVE-RESPONSE", "NEGATIVE-RESPONSE"}

var negativeResponseNames = [...]string{
	"COMMAND-REJECT",
	"INTERVENTION-REQUIRED",
	"OPERATION-CHECK",
	"COMPONENT-DISCONNECTED",
}

const headerLen = 5
