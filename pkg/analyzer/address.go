package analyzer

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// GetAddressFromScript derives a Bitcoin address from scriptPubkey, given its
// already-classified scriptType (as returned by ClassifyOutputScript).
// Callers building a full output projection classify the script once for
// display and pass that result straight in, instead of paying for a second
// classification pass inside this function. Returns nil for any scriptType
// with no address representation (op_return, unknown) or a scriptPubkey of
// the wrong length for its claimed type.
func GetAddressFromScript(scriptPubkey []byte, scriptType, network string) *string {
	netParams := &chaincfg.TestNet3Params
	if network == "mainnet" {
		netParams = &chaincfg.MainNetParams
	}

	var addr btcutil.Address
	var err error

	switch scriptType {
	case "p2pkh":
		if len(scriptPubkey) != 25 {
			return nil
		}
		addr, err = btcutil.NewAddressPubKeyHash(scriptPubkey[3:23], netParams)

	case "p2sh":
		if len(scriptPubkey) != 23 {
			return nil
		}
		addr, err = btcutil.NewAddressScriptHash(scriptPubkey[2:22], netParams)

	case "p2wpkh":
		if len(scriptPubkey) != 22 {
			return nil
		}
		addr, err = btcutil.NewAddressWitnessPubKeyHash(scriptPubkey[2:22], netParams)

	case "p2wsh":
		if len(scriptPubkey) != 34 {
			return nil
		}
		addr, err = btcutil.NewAddressWitnessScriptHash(scriptPubkey[2:34], netParams)

	case "p2tr":
		if len(scriptPubkey) != 34 {
			return nil
		}
		addr, err = btcutil.NewAddressTaproot(scriptPubkey[2:34], netParams)

	default:
		return nil
	}

	if err != nil {
		return nil
	}

	addrStr := addr.EncodeAddress()
	return &addrStr
}
