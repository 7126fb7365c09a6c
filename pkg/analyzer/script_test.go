package analyzer_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"zordinals/pkg/analyzer"
)

func TestClassifyOutputScript(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{"p2pkh", "76a914" + strings.Repeat("00", 20) + "88ac", "p2pkh"},
		{"p2sh", "a914" + strings.Repeat("00", 20) + "87", "p2sh"},
		{"p2wpkh", "0014" + strings.Repeat("00", 20), "p2wpkh"},
		{"p2wsh", "0020" + strings.Repeat("00", 32), "p2wsh"},
		{"p2tr", "5120" + strings.Repeat("00", 32), "p2tr"},
		{"op_return", "6a0548656c6c6f", "op_return"},
		{"empty", "", "unknown"},
		{"garbage", "ab", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := hex.DecodeString(tt.hex)
			require.NoError(t, err)
			require.Equal(t, tt.want, analyzer.ClassifyOutputScript(raw))
		})
	}
}

func TestDisassembleScriptEmpty(t *testing.T) {
	require.Equal(t, "", analyzer.DisassembleScript(nil))
}

func TestDisassembleScriptOpReturn(t *testing.T) {
	raw, err := hex.DecodeString("6a0548656c6c6f")
	require.NoError(t, err)
	require.Equal(t, "OP_RETURN OP_PUSHBYTES_5 48656c6c6f", analyzer.DisassembleScript(raw))
}

func TestParseOpReturnConcatenatesPushes(t *testing.T) {
	raw, err := hex.DecodeString("6a0548656c6c6f05776f726c64")
	require.NoError(t, err)
	dataHex, dataUtf8, protocol := analyzer.ParseOpReturn(raw)
	require.Equal(t, hex.EncodeToString([]byte("Helloworld")), dataHex)
	require.NotNil(t, dataUtf8)
	require.Equal(t, "Helloworld", *dataUtf8)
	require.Equal(t, "unknown", protocol)
}

func TestParseOpReturnNotOpReturn(t *testing.T) {
	dataHex, dataUtf8, protocol := analyzer.ParseOpReturn([]byte{0x51})
	require.Empty(t, dataHex)
	require.Nil(t, dataUtf8)
	require.Equal(t, "unknown", protocol)
}

func TestParseOpReturnDetectsOmniProtocol(t *testing.T) {
	payload := append([]byte{0x6f, 0x6d, 0x6e, 0x69}, []byte{0x00, 0x00, 0x00, 0x00}...)
	script := append([]byte{0x6a, byte(len(payload))}, payload...)
	_, _, protocol := analyzer.ParseOpReturn(script)
	require.Equal(t, "omni", protocol)
}
