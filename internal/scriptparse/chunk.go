// Package scriptparse decodes a raw Bitcoin-style script byte string into an
// ordered sequence of chunks. The result is a typed chunk slice instead of
// an ASM string so the inscription codec (package inscription) can inspect
// pushes and small integers directly rather than re-tokenizing text.
package scriptparse

import (
	"encoding/binary"
	"encoding/hex"

	"zordinals/internal/zorderr"
)

// Chunk is a tagged variant: either a bare opcode, or a data push carrying
// the opcode that introduced it plus the raw bytes pushed. OP_0 is always
// represented as a bare opcode, never as an empty push — the small-integer
// rule below depends on keeping those two cases distinct.
type Chunk struct {
	Op   byte
	Data []byte // non-nil only for pushes
}

// IsPush reports whether this chunk carries pushed data.
func (c Chunk) IsPush() bool { return c.Data != nil }

const (
	opPushData1 = 0x4c
	opPushData2 = 0x4d
	opPushData4 = 0x4e
	op1Negate   = 0x4f
	op1         = 0x51
	op16        = 0x60
)

// Parse decodes a raw script byte string into an ordered chunk list.
// Truncated or malformed input fails with *zorderr.ErrScriptParse; callers
// are expected to skip that input and keep walking rather than abort.
func Parse(script []byte) ([]Chunk, error) {
	var chunks []Chunk
	i := 0
	for i < len(script) {
		op := script[i]
		i++

		switch {
		case op == 0x00:
			chunks = append(chunks, Chunk{Op: op})

		case op >= 0x01 && op <= 0x4b:
			n := int(op)
			if i+n > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated direct push"}
			}
			data := make([]byte, n)
			copy(data, script[i:i+n])
			chunks = append(chunks, Chunk{Op: op, Data: data})
			i += n

		case op == opPushData1:
			if i >= len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA1 length"}
			}
			n := int(script[i])
			i++
			if i+n > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA1 data"}
			}
			data := make([]byte, n)
			copy(data, script[i:i+n])
			chunks = append(chunks, Chunk{Op: op, Data: data})
			i += n

		case op == opPushData2:
			if i+2 > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA2 length"}
			}
			n := int(binary.LittleEndian.Uint16(script[i : i+2]))
			i += 2
			if i+n > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA2 data"}
			}
			data := make([]byte, n)
			copy(data, script[i:i+n])
			chunks = append(chunks, Chunk{Op: op, Data: data})
			i += n

		case op == opPushData4:
			if i+4 > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA4 length"}
			}
			n := int(binary.LittleEndian.Uint32(script[i : i+4]))
			i += 4
			if i+n > len(script) {
				return nil, &zorderr.ErrScriptParse{Reason: "truncated OP_PUSHDATA4 data"}
			}
			data := make([]byte, n)
			copy(data, script[i:i+n])
			chunks = append(chunks, Chunk{Op: op, Data: data})
			i += n

		default:
			chunks = append(chunks, Chunk{Op: op})
		}
	}
	return chunks, nil
}

// ParseHex decodes a hex-encoded script, as most call sites receive
// scriptSig/scriptPubKey straight out of the RPC JSON as hex strings.
func ParseHex(scriptHex string) ([]Chunk, error) {
	raw, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, &zorderr.ErrScriptParse{Reason: "invalid hex: " + err.Error()}
	}
	return Parse(raw)
}

// notANumber is returned by SmallInt for chunks that don't encode a small
// nonnegative integer.
const notANumber = -1

// SmallInt interprets a chunk as a small nonnegative integer per the
// on-chain convention this system must preserve:
//
//   - OP_0                     -> 0
//   - push of exactly one byte -> that byte's value
//   - push of exactly two bytes -> byte0 + byte1*255 (NOT *256 — see below)
//   - OP_1..OP_16 (0x51..0x60)  -> opcode - 0x50
//   - anything else             -> ok=false
//
// The two-byte case multiplies the high byte by 255 rather than 256. That is
// not the conventional little-endian formula, but it is the encoding this
// chain's existing inscriptions were produced with, and bit-compatibility
// requires preserving it exactly rather than "fixing" it.
func SmallInt(c Chunk) (value int, ok bool) {
	switch {
	case !c.IsPush() && c.Op == 0x00:
		return 0, true
	case !c.IsPush() && c.Op >= op1 && c.Op <= op16:
		return int(c.Op) - 0x50, true
	case c.IsPush() && len(c.Data) == 1:
		return int(c.Data[0]), true
	case c.IsPush() && len(c.Data) == 2:
		return int(c.Data[0]) + int(c.Data[1])*255, true
	default:
		return notANumber, false
	}
}
