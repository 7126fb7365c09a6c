package analyzer

import "zordinals/internal/rpcclient"

// GetLocktimeType classifies tx's locktime field as disabled, a block
// height, or a unix timestamp, per the nLockTime encoding rule (values below
// 500000000 are block heights, at or above are timestamps).
func GetLocktimeType(tx rpcclient.Transaction) string {
	switch {
	case tx.Locktime == 0:
		return "none"
	case tx.Locktime < 500000000:
		return "block_height"
	default:
		return "unix_timestamp"
	}
}

// ParseRelativeTimelock decodes the BIP68 relative timelock encoded in one
// input's sequence number.
func ParseRelativeTimelock(in rpcclient.Vin) (enabled bool, tlType string, value uint32) {
	sequence := in.Sequence

	// Bit 31 set: relative timelock disabled for this input.
	if sequence&(1<<31) != 0 {
		return false, "", 0
	}

	// >= 0xfffffffe is reserved for absolute-locktime/final signaling, not a
	// relative timelock.
	if sequence >= 0xfffffffe {
		return false, "", 0
	}

	// Bit 22 selects units: set means 512-second increments, clear means blocks.
	if sequence&(1<<22) != 0 {
		value = (sequence & 0xffff) * 512
		return true, "time", value
	}

	value = sequence & 0xffff
	return true, "blocks", value
}

// IsRBFSignaling reports whether any input of tx signals BIP125
// replaceability (sequence below the final two reserved values).
func IsRBFSignaling(tx rpcclient.Transaction) bool {
	for _, in := range tx.Vin {
		if in.Sequence < 0xfffffffe {
			return true
		}
	}
	return false
}
