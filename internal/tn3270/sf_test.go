package tn3270

import (
	"testing"

	"github.com/stesla/tnscope/internal/dissect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsf(fields ...byte) []byte {
	return append([]byte{CmdSNAWSF}, fields...)
}

func TestPaddingAdvancesOneByte(t *testing.T) {
	var tests = []struct {
		dir      Direction
		data     []byte
		expected string
	}{
		{Outbound, wsf(0x00, 0x00, 0x04, 0x00, 0x01), "Structured Field: Reset Partition"},
		{Inbound, []byte{AIDStructuredField, 0x00, 0x00, 0x05, 0x81, 0x80, 0x81}, "Structured Field: Query Reply (Summary)"},
	}
	for i, test := range tests {
		sess := NewSession(host, client, false, 2)
		records := decode(sess, test.dir, test.data)
		pad, ok := dissect.Find(records, "Padding")
		require.True(t, ok, i)
		require.Equal(t, 1, pad.Offset, i)
		require.Equal(t, 1, pad.Length, i)
		sf, ok := dissect.Find(records, test.expected)
		require.True(t, ok, i)
		require.Equal(t, 2, sf.Offset, i)
		assert.Empty(t, dissect.Diagnostics(records), i)
	}
}

func TestQueryReplySummary(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Inbound, []byte{AIDStructuredField, 0x00, 0x06, 0x81, 0x80, 0x81, 0x86})
	l := labels(records)
	assert.Contains(t, l, "AID: Structured field")
	assert.Contains(t, l, "Supported: Usable Area")
	assert.Contains(t, l, "Supported: Color")
}

func TestUnknownStructuredField(t *testing.T) {
	var tests = []struct {
		dir      Direction
		data     []byte
		expected string
	}{
		{Outbound, wsf(0x00, 0x04, 0x55, 0xaa), "Unknown [0x55]"},
		{Outbound, wsf(0x00, 0x05, 0x0f, 0x99, 0xaa), "Unknown [0x0f99]"},
		{Outbound, wsf(0x00, 0x04, 0x80, 0x00), "Unknown [0x80]"},
		{Inbound, []byte{AIDStructuredField, 0x00, 0x04, 0x03, 0x80}, "Unknown [0x03]"},
	}
	for i, test := range tests {
		sess := NewSession(host, client, false, 2)
		records := decode(sess, test.dir, test.data)
		assert.Contains(t, labels(records), test.expected, i)
	}
}

func TestTwoFieldsInOneWSF(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(
		0x00, 0x04, 0x00, 0x01,
		0x00, 0x04, 0x0e, 0x02,
	))
	l := labels(records)
	assert.Contains(t, l, "Structured Field: Reset Partition")
	assert.Contains(t, l, "Structured Field: Activate Partition")
	assert.Contains(t, l, "Partition ID: 0x02")
}

func TestStructuredFieldTrailingData(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(0x00, 0x05, 0x00, 0x01, 0x02))
	assert.Contains(t, labels(records), "Unknown trailing data: 02")
}

func TestStructuredFieldErrors(t *testing.T) {
	var tests = []struct {
		data     []byte
		expected string
	}{
		{wsf(0x00, 0x02, 0x00), "Structured field length 2 is invalid"},
		{wsf(0x00, 0x03, 0x0f), "Structured field length 3 is invalid"},
		{wsf(0x00, 0x08, 0x00, 0x01), "Structured field truncated: 4 of 8 bytes"},
		{wsf(0x05), "Structured field truncated"},
	}
	for i, test := range tests {
		sess := NewSession(host, client, false, 2)
		diags := dissect.Diagnostics(decode(sess, Outbound, test.data))
		require.Len(t, diags, 1, i)
		require.Equal(t, test.expected, diags[0].Label, i)
	}
}

func TestEraseResetGeometry(t *testing.T) {
	sess := NewSession(host, client, false, 3)
	decode(sess, Outbound, wsf(0x00, 0x04, 0x03, 0x80))
	require.Equal(t, 32, sess.Rows)
	require.Equal(t, 80, sess.Cols)
	decode(sess, Outbound, wsf(0x00, 0x04, 0x03, 0x00))
	require.Equal(t, 24, sess.Rows)
	require.Equal(t, 80, sess.Cols)
}

func TestCreatePartitionGeometry(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(
		0x00, 0x1a, 0x0c,
		0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x00, 0x28,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x20, 0x00, 0x00, 0x00, 0x28, 0x00, 0x00,
	))
	assert.Empty(t, dissect.Diagnostics(records))
	assert.Contains(t, labels(records), "Presentation Space Rows: 32")
	require.Equal(t, 32, sess.Rows)
	require.Equal(t, 40, sess.Cols)

	records = decode(sess, Outbound, []byte{CmdWrite, 0x00, OrderSBA, 0x00, 0x28})
	assert.Contains(t, labels(records), "Buffer Address: Row 2, Column 1 (14-bit binary, 40)")
}

func TestOutbound3270DS(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(0x00, 0x07, 0x40, 0x00, CmdWrite, 0x00, 0xc1))
	l := labels(records)
	assert.Contains(t, l, "Structured Field: Outbound 3270DS")
	assert.Contains(t, l, "3270 Command: Write")
	assert.Contains(t, l, "Data: A")
	assert.Empty(t, dissect.Diagnostics(records))
}

func TestReadPartitionQueryList(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(0x00, 0x07, 0x01, 0xff, 0x03, 0x00, 0x86))
	l := labels(records)
	assert.Contains(t, l, "Type: Query List")
	assert.Contains(t, l, "Request Type: QCODE List")
	assert.Contains(t, l, "QCODE: Color")
}

func TestSelfDefiningParameters(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(
		0x00, 0x0c, 0x0f, 0x08,
		0x00, 0x00, 0x00,
		0x03, 0x04, 0x01,
		0x02, 0x99,
	))
	l := labels(records)
	assert.Contains(t, l, "Select Base Character Set")
	assert.Contains(t, l, "Local Character Set ID: 0x01")
	assert.Contains(t, l, "Unknown trailing data: 0299")
}

func TestSelfDefiningParameterLengthMismatch(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(
		0x00, 0x0b, 0x0f, 0x08,
		0x00, 0x00, 0x00,
		0x04, 0x04, 0x01, 0x02,
	))
	l := labels(records)
	assert.NotContains(t, l, "Select Base Character Set")
	assert.Contains(t, l, "Unknown trailing data: 04040102")
}

func TestImplicitPartitionReply(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Inbound, []byte{
		AIDStructuredField,
		0x00, 0x11, 0x81, 0xa6,
		0x00, 0x00,
		0x0b, 0x01, 0x00, 0x00, 0x50, 0x00, 0x18, 0x00, 0x84, 0x00, 0x1b,
	})
	l := labels(records)
	assert.Contains(t, l, "Structured Field: Query Reply (Implicit Partition)")
	assert.Contains(t, l, "Default Width: 80")
	assert.Contains(t, l, "Alternate Height: 27")
	assert.Empty(t, dissect.Diagnostics(records))
}

func TestColorReply(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Inbound, []byte{
		AIDStructuredField,
		0x00, 0x0a, 0x81, 0x86,
		0x00, 0x02, 0x00, 0xf4, 0xf1, 0xf1,
	})
	l := labels(records)
	assert.Contains(t, l, "Number of Pairs: 2")
	assert.Contains(t, l, "Color Pair: 0xf1 = 0xf1")
	assert.Empty(t, dissect.Diagnostics(records))
}

func TestInbound3270DS(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Inbound, []byte{
		AIDStructuredField,
		0x00, 0x07, 0x80, 0x00, AIDEnter, 0x40, 0x40,
	})
	l := labels(records)
	assert.Contains(t, l, "Structured Field: Inbound 3270DS")
	assert.Contains(t, l, "AID: Enter")
}

func TestDataChain(t *testing.T) {
	sess := NewSession(host, client, false, 2)
	records := decode(sess, Outbound, wsf(0x00, 0x05, 0x0f, 0x21, 0x70))
	assert.Contains(t, labels(records), "Data Chain: Last, Inbound data not allowed")
}
