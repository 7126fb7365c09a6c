package inscription_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zordinals/internal/inscription"
	"zordinals/internal/scriptparse"
)

func pushBytes(b []byte) []byte {
	n := len(b)
	if n <= 0x4b {
		return append([]byte{byte(n)}, b...)
	}
	return append([]byte{0x4c, byte(n)}, b...)
}

func smallIntPush(v int) []byte {
	return pushBytes([]byte{byte(v)})
}

// buildEnvelope renders an "ord" envelope scriptSig carrying the given
// pieces, in ascending index order.
func buildEnvelope(total int, mime string, pieces map[int][]byte) []byte {
	var b []byte
	b = append(b, pushBytes([]byte("ord"))...)
	b = append(b, smallIntPush(total)...)
	b = append(b, pushBytes([]byte(mime))...)
	for i := 0; i < total; i++ {
		if data, ok := pieces[i]; ok {
			b = append(b, smallIntPush(i)...)
			b = append(b, pushBytes(data)...)
		}
	}
	return b
}

func mustChunks(t *testing.T, script []byte) []scriptparse.Chunk {
	t.Helper()
	chunks, err := scriptparse.Parse(script)
	require.NoError(t, err)
	return chunks
}

func TestDecodeEnvelopeValid(t *testing.T) {
	script := buildEnvelope(2, "text/plain", map[int][]byte{
		0: []byte("hello "),
		1: []byte("world"),
	})
	hdr := inscription.DecodeEnvelope(mustChunks(t, script))
	require.NotNil(t, hdr)
	require.Equal(t, 2, hdr.TotalPieces)
	require.Equal(t, "text/plain", hdr.MimeType)
	require.Equal(t, []byte("hello "), hdr.Pieces[0])
	require.Equal(t, []byte("world"), hdr.Pieces[1])
}

func TestDecodeEnvelopeRejectsWrongMagic(t *testing.T) {
	script := append(pushBytes([]byte("not")), smallIntPush(1)...)
	script = append(script, pushBytes([]byte("text/plain"))...)
	hdr := inscription.DecodeEnvelope(mustChunks(t, script))
	require.Nil(t, hdr)
}

func TestDecodeEnvelopeTooShort(t *testing.T) {
	script := pushBytes([]byte("ord"))
	hdr := inscription.DecodeEnvelope(mustChunks(t, script))
	require.Nil(t, hdr)
}

func TestDecodeEnvelopeFirstWriterWinsWithinOneEnvelope(t *testing.T) {
	// Same index pushed twice in one envelope: first occurrence wins.
	script := buildEnvelope(1, "text/plain", map[int][]byte{0: []byte("first")})
	script = append(script, smallIntPush(0)...)
	script = append(script, pushBytes([]byte("second"))...)
	hdr := inscription.DecodeEnvelope(mustChunks(t, script))
	require.NotNil(t, hdr)
	require.Equal(t, []byte("first"), hdr.Pieces[0])
}

func TestDecodeEnvelopeDropsOutOfRangeIndex(t *testing.T) {
	script := buildEnvelope(1, "text/plain", map[int][]byte{0: []byte("in range")})
	script = append(script, smallIntPush(5)...)
	script = append(script, pushBytes([]byte("out of range"))...)
	hdr := inscription.DecodeEnvelope(mustChunks(t, script))
	require.NotNil(t, hdr)
	require.Len(t, hdr.Pieces, 1)
	require.Equal(t, []byte("in range"), hdr.Pieces[0])
}

func TestDecodeContinuationPlainPairs(t *testing.T) {
	var script []byte
	script = append(script, smallIntPush(2)...)
	script = append(script, pushBytes([]byte("piece two"))...)
	cont := inscription.DecodeContinuation(mustChunks(t, script), 5, "text/plain")
	require.NotNil(t, cont)
	require.Equal(t, []byte("piece two"), cont.Pieces[2])
}

func TestDecodeContinuationRepeatedEnvelopeOverridesTotal(t *testing.T) {
	script := buildEnvelope(3, "text/plain", map[int][]byte{1: []byte("middle")})
	// A hint of 1 would drop index 1; the envelope's own total of 3 keeps it.
	cont := inscription.DecodeContinuation(mustChunks(t, script), 1, "")
	require.NotNil(t, cont)
	require.Equal(t, []byte("middle"), cont.Pieces[1])
}

func TestDecodeContinuationEmptyYieldsNil(t *testing.T) {
	cont := inscription.DecodeContinuation(nil, 2, "text/plain")
	require.Nil(t, cont)
}
