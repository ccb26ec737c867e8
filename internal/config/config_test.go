package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []uint16{23, 992}, cfg.TelnetPorts)
	require.Equal(t, 2, cfg.TN3270Model)
	require.Equal(t, 5, cfg.SummaryItems)
	require.True(t, cfg.Reassemble)
	require.True(t, cfg.IsTelnetPort(23))
	require.False(t, cfg.IsTelnetPort(80))
}

func TestParse(t *testing.T) {
	cfg := Default()
	err := Parse([]byte(`
tn3270Ports: [2323]
tn3270Model: 4
reassemble: false
logFormat: json
`), cfg)
	require.NoError(t, err)
	require.Equal(t, []uint16{23, 992}, cfg.TelnetPorts)
	require.Equal(t, []uint16{2323}, cfg.TN3270Ports)
	require.Equal(t, 4, cfg.TN3270Model)
	require.False(t, cfg.Reassemble)
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.IsTelnetPort(2323))
	require.True(t, cfg.IsTN3270Port(2323))
}

func TestParseInvalid(t *testing.T) {
	var tests = []struct {
		yaml     string
		expected string
	}{
		{"logFormat: xml", `logFormat "xml" is not one of auto, console, json`},
		{"tn3270Model: 9", "tn3270Model 9 is not between 2 and 5"},
		{"summaryItems: 0", "summaryItems must be positive, got 0"},
	}
	for i, test := range tests {
		err := Parse([]byte(test.yaml), Default())
		require.EqualError(t, err, test.expected, i)
	}

	err := Parse([]byte("telnetPorts: nope"), Default())
	require.ErrorContains(t, err, "parse")
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TNSCOPE_TEST_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "tnscope.yml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: ${TNSCOPE_TEST_LEVEL}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorContains(t, err, "read config")
}
