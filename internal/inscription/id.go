package inscription

import (
	"fmt"
	"strconv"
	"strings"
)

// idSeparator is the literal between an inscription's genesis txid and its
// piece index, e.g. "...i0". Named the way BoostyLabs-blockchain's
// bitcoin/ord/inscriptions package names the same separator for its (taproot
// witness flavored) inscription IDs.
const idSeparator = "i"

// CanonicalID normalizes arbitrary user input — a bare txid, "<txid>i0", or
// "<txid>i<n>" for any n — to the canonical "<txid>i0" form this system
// always uses, since the trailing index is not meaningful here (unlike the
// taproot ordinals protocol, every inscription produced by this system's
// toolchain has exactly one root id per genesis transaction).
func CanonicalID(idOrTxid string) string {
	return BaseTxid(idOrTxid) + idSeparator + "0"
}

// BaseTxid strips any trailing "i<n>" suffix, returning the bare txid.
func BaseTxid(idOrTxid string) string {
	if idx := strings.LastIndex(idOrTxid, idSeparator); idx > 0 {
		if _, err := strconv.ParseUint(idOrTxid[idx+1:], 10, 32); err == nil {
			return idOrTxid[:idx]
		}
	}
	return idOrTxid
}

// Split parses a canonical or near-canonical id into its txid and index
// parts, for callers that need the raw suffix rather than a normalized one.
func Split(idOrTxid string) (txid string, index uint32, hasSuffix bool) {
	base := BaseTxid(idOrTxid)
	if base == idOrTxid {
		return base, 0, false
	}
	idx := strings.LastIndex(idOrTxid, idSeparator)
	n, err := strconv.ParseUint(idOrTxid[idx+1:], 10, 32)
	if err != nil {
		return idOrTxid, 0, false
	}
	return base, uint32(n), true
}

// Format renders a txid and index as a "<txid>i<n>" inscription id string.
func Format(txid string, index uint32) string {
	return fmt.Sprintf("%s%s%d", txid, idSeparator, index)
}
