// Package chainwalker implements the backward-to-genesis and
// forward-to-spender traversals over the node's transaction/block RPC
// surface. Both walks are written iteratively with explicit loop state to
// avoid unbounded stack growth on long inscription chains even though the
// two walks are naturally a mutually recursive pair.
package chainwalker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"zordinals/internal/inscription"
	"zordinals/internal/rpcclient"
	"zordinals/internal/scriptparse"
)

// RPC is the subset of *rpcclient.Client the walker depends on, so tests can
// substitute a fake.
type RPC interface {
	GetRawTransaction(ctx context.Context, txid string) (*rpcclient.Transaction, error)
	GetBlockHash(ctx context.Context, height int) (string, error)
	GetBlockHeader(ctx context.Context, hash string) (*rpcclient.BlockHeader, error)
	GetBlockVerbose(ctx context.Context, hash string) (*rpcclient.Block, error)
}

// Walker performs the backward genesis walk and forward spender scan.
type Walker struct {
	rpc          RPC
	log          *logrus.Logger
	blockPause   time.Duration
	defaultDepth int
}

// New builds a Walker with the standard ~1s inter-block pacing pause.
func New(rpc RPC, log *logrus.Logger, defaultMaxDepth int) *Walker {
	return &Walker{rpc: rpc, log: log, blockPause: time.Second, defaultDepth: defaultMaxDepth}
}

// RPC exposes the walker's underlying RPC surface, for callers (the
// reconstructor's forward chase) that need to fetch a transaction the
// walker has already located a spender for.
func (w *Walker) RPC() RPC {
	return w.rpc
}

// Genesis is the result of a backward walk: the earliest transaction in a
// contiguous chain of envelope-bearing predecessors, and the envelope it
// carries.
type Genesis struct {
	Txid     string
	Envelope *inscription.Header
	Height   int  // -1 if unconfirmed / unknown
	HasBlock bool
}

// FindGenesis walks backward from startTxid through vin[0]. While the
// current transaction's vin[0] does not parse as an envelope, it keeps
// walking backward without declaring genesis. Once it finds a transaction
// whose vin[0] does parse as an envelope, it checks that transaction's
// parent: if the parent's vin[0] also parses as an envelope, the walk
// continues from the parent (the inscription spans several concatenated
// envelope transactions); otherwise the transaction that carried the
// envelope is genesis. A transaction with no inputs or no vin[0].scriptSig
// is always returned as genesis with a nil Envelope, regardless of any
// envelope context accumulated earlier in the walk.
func (w *Walker) FindGenesis(ctx context.Context, startTxid string) (*Genesis, error) {
	curTxid := startTxid
	curTx, err := w.rpc.GetRawTransaction(ctx, curTxid)
	if err != nil {
		return nil, err
	}

	for {
		if len(curTx.Vin) == 0 || curTx.Vin[0].ScriptSig.Hex == "" {
			return w.toGenesis(ctx, curTxid, nil, curTx), nil
		}

		env := parseEnvelope(curTx.Vin[0].ScriptSig.Hex)
		parentTxid := curTx.Vin[0].Txid

		if env == nil {
			parentTx, err := w.rpc.GetRawTransaction(ctx, parentTxid)
			if err != nil {
				return w.toGenesis(ctx, curTxid, nil, curTx), nil
			}
			curTxid, curTx = parentTxid, parentTx
			continue
		}

		parentTx, err := w.rpc.GetRawTransaction(ctx, parentTxid)
		if err != nil {
			return w.toGenesis(ctx, curTxid, env, curTx), nil
		}

		var parentEnv *inscription.Header
		if len(parentTx.Vin) > 0 && parentTx.Vin[0].ScriptSig.Hex != "" {
			parentEnv = parseEnvelope(parentTx.Vin[0].ScriptSig.Hex)
		}

		if parentEnv != nil {
			curTxid, curTx = parentTxid, parentTx
			continue
		}

		return w.toGenesis(ctx, curTxid, env, curTx), nil
	}
}

func parseEnvelope(scriptSigHex string) *inscription.Header {
	chunks, err := scriptparse.ParseHex(scriptSigHex)
	if err != nil {
		return nil
	}
	return inscription.DecodeEnvelope(chunks)
}

func (w *Walker) toGenesis(ctx context.Context, txid string, envelope *inscription.Header, tx *rpcclient.Transaction) *Genesis {
	g := &Genesis{Txid: txid, Envelope: envelope, Height: -1}
	if tx != nil && tx.BlockHash != "" {
		if hdr, err := w.rpc.GetBlockHeader(ctx, tx.BlockHash); err == nil {
			g.Height = hdr.Height
			g.HasBlock = true
		}
	}
	return g
}

// Spender is the result of a successful forward spender search.
type Spender struct {
	Txid     string
	VinIndex int
	Height   int
}

// FindSpender scans blocks [startHeight, startHeight+maxDepth] in increasing
// order for the first transaction that spends (txid, vout). maxDepth <= 0
// uses the walker's configured default. Returns nil, nil if no spender is
// found in the window; a block-hash or block-fetch failure at any height
// also ends the scan early rather than being treated as an error.
func (w *Walker) FindSpender(ctx context.Context, txid string, vout int, startHeight, maxDepth int) (*Spender, error) {
	if maxDepth <= 0 {
		maxDepth = w.defaultDepth
	}

	for h := startHeight; h <= startHeight+maxDepth; h++ {
		if h > startHeight {
			time.Sleep(w.blockPause)
		}

		hash, err := w.rpc.GetBlockHash(ctx, h)
		if err != nil {
			w.log.WithFields(logrus.Fields{"height": h, "err": err}).Debug("forward scan: no block at height, stopping")
			return nil, nil
		}

		block, err := w.rpc.GetBlockVerbose(ctx, hash)
		if err != nil {
			w.log.WithFields(logrus.Fields{"height": h, "err": err}).Warn("forward scan: block fetch failed, stopping")
			return nil, nil
		}

		for _, tx := range block.Tx {
			for vi, in := range tx.Vin {
				if in.Txid == txid && in.Vout == vout {
					return &Spender{Txid: tx.Txid, VinIndex: vi, Height: h}, nil
				}
			}
		}
	}

	return nil, nil
}
