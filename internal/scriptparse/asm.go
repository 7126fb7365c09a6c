package scriptparse

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Disassemble renders an already-parsed chunk list as human-readable ASM,
// using a PUSHBYTES_n / PUSHDATA1/2/4 / named-opcode format. It is a display
// helper for the script-inspection companion tool. Truncated scripts never
// reach it: Parse rejects them, and pkg/analyzer.DisassembleScript then
// renders an empty string.
func Disassemble(chunks []Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		switch {
		case !c.IsPush() && c.Op == 0x00:
			parts = append(parts, "OP_0")
		case c.IsPush() && c.Op >= 0x01 && c.Op <= 0x4b:
			parts = append(parts, fmt.Sprintf("OP_PUSHBYTES_%d %s", c.Op, hex.EncodeToString(c.Data)))
		case c.IsPush() && c.Op == opPushData1:
			parts = append(parts, "OP_PUSHDATA1 "+hex.EncodeToString(c.Data))
		case c.IsPush() && c.Op == opPushData2:
			parts = append(parts, "OP_PUSHDATA2 "+hex.EncodeToString(c.Data))
		case c.IsPush() && c.Op == opPushData4:
			parts = append(parts, "OP_PUSHDATA4 "+hex.EncodeToString(c.Data))
		default:
			parts = append(parts, OpcodeName(c.Op))
		}
	}
	return strings.Join(parts, " ")
}
