// Package inscription implements the "ord" envelope codec: recognizing the
// opening envelope of a genesis transaction and the continuation form used
// by follow-up transactions in a spender chain. Both decode modes are total
// over arbitrary input — malformed scripts produce a nil/empty result, never
// an error, because the chain walker must keep scanning unrelated
// transactions without aborting.
//
// The overall shape (a cursor over decoded tokens, an envelope-start
// sentinel, a fill loop that tolerates unknown trailing content) is grounded
// on BoostyLabs-blockchain's bitcoin/ord/inscriptions package, adapted from
// its taproot-witness tag encoding to this chain's flat scriptSig push
// encoding: chunk[0] == push("ord"), chunk[1] a small-int piece count,
// chunk[2] a mime type push, then interleaved (index, data) pairs.
package inscription

import (
	"zordinals/internal/scriptparse"
)

// ordMagic is the literal bytes that open every envelope.
var ordMagic = []byte("ord")

// Header is the decoded result of an envelope-mode parse: the declared piece
// count, mime type, and whatever (index -> bytes) pairs were recovered
// before the chunk list ran out or stopped making sense.
type Header struct {
	TotalPieces int
	MimeType    string
	Pieces      map[int][]byte
}

// DecodeEnvelope attempts envelope-mode decoding of a single scriptSig's
// chunk list. It succeeds only if chunk[0] is a data push of exactly the
// three bytes "ord"; returns nil otherwise, including for any chunk list too
// short or too malformed to carry a valid piece count and mime type.
func DecodeEnvelope(chunks []scriptparse.Chunk) *Header {
	if len(chunks) < 3 {
		return nil
	}
	if !isOrdMagic(chunks[0]) {
		return nil
	}

	total, ok := scriptparse.SmallInt(chunks[1])
	if !ok || total < 1 {
		return nil
	}

	if !chunks[2].IsPush() {
		return nil
	}
	mime := string(chunks[2].Data)

	h := &Header{TotalPieces: total, MimeType: mime, Pieces: map[int][]byte{}}
	ingestPairs(chunks[3:], total, h.Pieces)
	return h
}

// ContinuationResult is the decoded result of a continuation-mode parse: the
// pieces recovered from a follow-up transaction. The total used to validate
// their indices is not carried here.
type ContinuationResult struct {
	Pieces map[int][]byte
}

// DecodeContinuation decodes a follow-up transaction's scriptSig chunk list
// using (expectedTotal, expectedMime) as hints from the genesis envelope. If
// the chunk list itself opens with a repeated "ord" envelope, that envelope's
// total/mime override the hints for the purpose of validating indices.
// Returns nil if no valid piece was extracted.
func DecodeContinuation(chunks []scriptparse.Chunk, expectedTotal int, expectedMime string) *ContinuationResult {
	_ = expectedMime // mime is not used to validate pieces, only carried by the caller

	total := expectedTotal
	pairChunks := chunks

	if len(chunks) >= 3 && isOrdMagic(chunks[0]) {
		if t, ok := scriptparse.SmallInt(chunks[1]); ok && t >= 1 && chunks[2].IsPush() {
			total = t
			pairChunks = chunks[3:]
		}
	}

	pieces := map[int][]byte{}
	ingestPairs(pairChunks, total, pieces)

	if len(pieces) == 0 {
		return nil
	}
	return &ContinuationResult{Pieces: pieces}
}

// ingestPairs reads (index, data) pairs from chunks starting at position 0,
// stopping as soon as either element of a pair is not of the expected form
// or the chunk list ends. Indices outside [0, total) are silently dropped —
// the pair is still "consumed" from the cursor, it just isn't recorded.
func ingestPairs(chunks []scriptparse.Chunk, total int, into map[int][]byte) {
	i := 0
	for i+1 < len(chunks) {
		idxChunk := chunks[i]
		dataChunk := chunks[i+1]

		idx, ok := scriptparse.SmallInt(idxChunk)
		if !ok || !dataChunk.IsPush() {
			return
		}
		i += 2

		if idx < 0 || idx >= total {
			continue
		}
		if _, exists := into[idx]; !exists {
			into[idx] = dataChunk.Data
		}
	}
}

func isOrdMagic(c scriptparse.Chunk) bool {
	if !c.IsPush() || len(c.Data) != len(ordMagic) {
		return false
	}
	for i, b := range ordMagic {
		if c.Data[i] != b {
			return false
		}
	}
	return true
}
