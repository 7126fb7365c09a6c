package analyzer_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"zordinals/pkg/analyzer"
)

func TestGetAddressFromScriptP2WPKH(t *testing.T) {
	raw, err := hex.DecodeString("0014" + strings.Repeat("11", 20))
	require.NoError(t, err)
	addr := analyzer.GetAddressFromScript(raw, "p2wpkh", "mainnet")
	require.NotNil(t, addr)
	require.True(t, strings.HasPrefix(*addr, "bc1"))
}

func TestGetAddressFromScriptP2WPKHTestnet(t *testing.T) {
	raw, err := hex.DecodeString("0014" + strings.Repeat("11", 20))
	require.NoError(t, err)
	addr := analyzer.GetAddressFromScript(raw, "p2wpkh", "testnet")
	require.NotNil(t, addr)
	require.True(t, strings.HasPrefix(*addr, "tb1"))
}

func TestGetAddressFromScriptOpReturnHasNoAddress(t *testing.T) {
	raw, err := hex.DecodeString("6a0548656c6c6f")
	require.NoError(t, err)
	require.Nil(t, analyzer.GetAddressFromScript(raw, "op_return", "mainnet"))
}

func TestGetAddressFromScriptUnknownTypeHasNoAddress(t *testing.T) {
	require.Nil(t, analyzer.GetAddressFromScript([]byte{0xab}, "unknown", "mainnet"))
}

func TestGetAddressFromScriptWrongLengthRejected(t *testing.T) {
	// A caller that passes a mismatched scriptType (e.g. from a stale
	// classification) must not get a derived address out of a
	// wrong-length script; the per-type length guard protects against that.
	raw, err := hex.DecodeString("0010" + strings.Repeat("11", 16))
	require.NoError(t, err)
	require.Nil(t, analyzer.GetAddressFromScript(raw, "p2wpkh", "mainnet"))
}
