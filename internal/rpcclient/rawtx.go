package rpcclient

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/wire"

	"zordinals/internal/zorderr"
)

// decodeRawTx rebuilds the Transaction projection straight from raw
// transaction bytes, for nodes that refuse both verbose forms of
// getrawtransaction. It only recovers the fields this system actually needs
// (txid, vin txid/vout/scriptSig/sequence, vout scriptPubKey, locktime) —
// fee, weight, and address analysis have no role in chain-walking.
func decodeRawTx(raw []byte) (*Transaction, error) {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, &zorderr.ErrNodeUnreachable{Method: "getrawtransaction", Cause: err}
	}

	tx := &Transaction{Txid: msgTx.TxHash().String(), Locktime: msgTx.LockTime}

	for _, in := range msgTx.TxIn {
		tx.Vin = append(tx.Vin, Vin{
			Txid:     in.PreviousOutPoint.Hash.String(),
			Vout:     int(in.PreviousOutPoint.Index),
			Sequence: in.Sequence,
			ScriptSig: ScriptSig{
				Hex: hex.EncodeToString(in.SignatureScript),
			},
		})
	}

	for n, out := range msgTx.TxOut {
		tx.Vout = append(tx.Vout, Vout{
			N: n,
			ScriptPubKey: ScriptPubKey{
				Hex: hex.EncodeToString(out.PkScript),
			},
		})
	}

	return tx, nil
}
