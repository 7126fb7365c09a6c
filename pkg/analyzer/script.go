package analyzer

import (
	"bytes"
	"encoding/hex"

	"zordinals/internal/scriptparse"
)

// ClassifyOutputScript determines the script type of an output
func ClassifyOutputScript(scriptPubkey []byte) string {
	if len(scriptPubkey) == 0 {
		return "unknown"
	}

	// P2PKH: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
	if len(scriptPubkey) == 25 &&
		scriptPubkey[0] == 0x76 && // OP_DUP
		scriptPubkey[1] == 0xa9 && // OP_HASH160
		scriptPubkey[2] == 0x14 && // Push 20 bytes
		scriptPubkey[23] == 0x88 && // OP_EQUALVERIFY
		scriptPubkey[24] == 0xac { // OP_CHECKSIG
		return "p2pkh"
	}

	// P2SH: OP_HASH160 <20 bytes> OP_EQUAL
	if len(scriptPubkey) == 23 &&
		scriptPubkey[0] == 0xa9 && // OP_HASH160
		scriptPubkey[1] == 0x14 && // Push 20 bytes
		scriptPubkey[22] == 0x87 { // OP_EQUAL
		return "p2sh"
	}

	// P2WPKH: OP_0 <20 bytes>
	if len(scriptPubkey) == 22 &&
		scriptPubkey[0] == 0x00 && // OP_0
		scriptPubkey[1] == 0x14 { // Push 20 bytes
		return "p2wpkh"
	}

	// P2WSH: OP_0 <32 bytes>
	if len(scriptPubkey) == 34 &&
		scriptPubkey[0] == 0x00 && // OP_0
		scriptPubkey[1] == 0x20 { // Push 32 bytes
		return "p2wsh"
	}

	// P2TR: OP_1 <32 bytes>
	if len(scriptPubkey) == 34 &&
		scriptPubkey[0] == 0x51 && // OP_1
		scriptPubkey[1] == 0x20 { // Push 32 bytes
		return "p2tr"
	}

	// OP_RETURN: starts with OP_RETURN (0x6a)
	if len(scriptPubkey) > 0 && scriptPubkey[0] == 0x6a {
		return "op_return"
	}

	return "unknown"
}

// DisassembleScript converts script bytes to human-readable ASM, delegating
// chunk decoding and opcode naming to internal/scriptparse so this tool and
// the reconstructor's script parser share one opcode table instead of each
// maintaining their own.
func DisassembleScript(script []byte) string {
	if len(script) == 0 {
		return ""
	}
	chunks, err := scriptparse.Parse(script)
	if err != nil {
		return ""
	}
	return scriptparse.Disassemble(chunks)
}

// ParseOpReturn extracts data from OP_RETURN output.
// Handles all push opcodes: direct (0x01-0x4b), PUSHDATA1, PUSHDATA2, PUSHDATA4.
// Multiple data pushes are concatenated.
func ParseOpReturn(script []byte) (dataHex string, dataUtf8 *string, protocol string) {
	if len(script) == 0 || script[0] != 0x6a {
		return "", nil, "unknown"
	}

	chunks, err := scriptparse.Parse(script[1:])
	if err != nil {
		return "", nil, "unknown"
	}

	var allData []byte
	for _, c := range chunks {
		if !c.IsPush() {
			break
		}
		allData = append(allData, c.Data...)
	}

	dataHex = hex.EncodeToString(allData)

	if len(allData) > 0 && isValidUTF8(allData) {
		str := string(allData)
		dataUtf8 = &str
	}

	switch {
	case len(allData) >= 4 && bytes.Equal(allData[:4], []byte{0x6f, 0x6d, 0x6e, 0x69}):
		protocol = "omni"
	case len(allData) >= 5 && bytes.Equal(allData[:5], []byte{0x01, 0x09, 0xf9, 0x11, 0x02}):
		protocol = "opentimestamps"
	default:
		protocol = "unknown"
	}

	return dataHex, dataUtf8, protocol
}

// isValidUTF8 checks if bytes are valid UTF-8 using Go's built-in rune iteration
func isValidUTF8(data []byte) bool {
	s := string(data)
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}
