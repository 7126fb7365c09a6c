// Package reconstructor implements the core ensureInscription operation:
// resolving an inscription id or txid to a reconstructed artifact, using the
// content store as a cache and falling back to a full backward/forward chain
// walk when nothing is cached yet.
package reconstructor

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"zordinals/internal/chainwalker"
	"zordinals/internal/inscription"
	"zordinals/internal/rpcclient"
	"zordinals/internal/scriptparse"
	"zordinals/internal/store"
	"zordinals/internal/zorderr"
)

// Result is the outcome of ensureInscription.
type Result struct {
	Buffer        []byte
	MimeType      string
	InscriptionID string
	FromCache     bool
}

// Reconstructor orchestrates the chain walker and the content store to turn
// an inscription id into a reconstructed artifact. A per-inscriptionId
// mutex (§5's recommended discipline) prevents two concurrent
// EnsureInscription calls for the same id from racing on the same file.
type Reconstructor struct {
	walker   *chainwalker.Walker
	store    *store.Store
	log      *logrus.Logger
	maxDepth int

	locks sync.Map // canonical inscriptionId -> *sync.Mutex
}

// New builds a Reconstructor. maxDepth is the forward spender-search window
// passed to the chain walker when none is specified per-call.
func New(walker *chainwalker.Walker, st *store.Store, log *logrus.Logger, maxDepth int) *Reconstructor {
	return &Reconstructor{walker: walker, store: st, log: log, maxDepth: maxDepth}
}

func (r *Reconstructor) lockFor(id string) *sync.Mutex {
	actual, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// EnsureInscription resolves idOrTxid to a reconstructed or cached artifact.
// It checks the master index and on-disk file first, adopting an orphaned
// file into the index if one exists, and only falls back to a full
// backward/forward chain walk when nothing is cached yet.
func (r *Reconstructor) EnsureInscription(ctx context.Context, idOrTxid string) (*Result, error) {
	inscriptionID := inscription.CanonicalID(idOrTxid)
	baseTxid := inscription.BaseTxid(idOrTxid)

	mu := r.lockFor(inscriptionID)
	mu.Lock()
	defer mu.Unlock()

	// Fast path 1: master index already has this id, and the file it points
	// to still exists.
	if rec, ok, err := r.store.Lookup(inscriptionID); err != nil {
		return nil, err
	} else if ok {
		if path, found := r.store.FindFile(inscriptionID, baseTxid); found {
			buf, err := store.ReadArtifact(path)
			if err != nil {
				return nil, err
			}
			r.log.WithField("inscriptionId", inscriptionID).Debug("ensureInscription: cache hit via master index")
			return &Result{Buffer: buf, MimeType: rec.MimeType, InscriptionID: inscriptionID, FromCache: true}, nil
		}
	}

	// Fast path 2: no index record, but a matching file already exists on
	// disk (e.g. seeded out of band). Adopt it into the index. There is no
	// chain walk to report a piece count from here, so the adopted record is
	// marked complete: a file with nothing recorded about it is assumed
	// whole rather than partial.
	if path, found := r.store.FindFile(inscriptionID, baseTxid); found {
		mimeType := store.MimeFromPath(path)
		buf, err := store.ReadArtifact(path)
		if err != nil {
			return nil, err
		}
		if err := r.store.Upsert(r.store.NewRecord(inscriptionID, baseTxid, mimeType, len(buf), true)); err != nil {
			return nil, err
		}
		r.log.WithField("inscriptionId", inscriptionID).Debug("ensureInscription: adopted untracked cache file")
		return &Result{Buffer: buf, MimeType: mimeType, InscriptionID: inscriptionID, FromCache: true}, nil
	}

	// Fast path 3 doesn't exist: fall through to a full reconstruction.
	return r.reconstruct(ctx, inscriptionID, baseTxid)
}

func (r *Reconstructor) reconstruct(ctx context.Context, inscriptionID, baseTxid string) (*Result, error) {
	genesis, err := r.walker.FindGenesis(ctx, baseTxid)
	if err != nil {
		return nil, err
	}
	if genesis.Envelope == nil {
		return nil, &zorderr.ErrNoInscription{Txid: baseTxid}
	}

	total := genesis.Envelope.TotalPieces
	mimeType := genesis.Envelope.MimeType
	pieces := map[int][]byte{}
	for idx, data := range genesis.Envelope.Pieces {
		pieces[idx] = data
	}

	if genesis.HasBlock {
		r.walkForward(ctx, genesis.Txid, genesis.Height, total, pieces)
	}

	buffer := assemble(pieces, total)
	isComplete := complete(pieces, total)
	if !isComplete {
		r.log.WithError(&zorderr.ErrIncompleteInscription{
			InscriptionID: inscriptionID,
			Have:          len(pieces),
			Want:          total,
		}).Warn("reconstruction finished with missing pieces, emitting partial artifact")
	}

	if _, err := r.store.WriteArtifact(inscriptionID, mimeType, buffer); err != nil {
		return nil, err
	}

	rec := r.store.NewRecord(inscriptionID, baseTxid, mimeType, len(buffer), isComplete)
	if err := r.store.Upsert(rec); err != nil {
		return nil, err
	}

	return &Result{Buffer: buffer, MimeType: mimeType, InscriptionID: inscriptionID, FromCache: false}, nil
}

// walkForward runs the forward spender-chase loop, merging each spender's
// continuation pieces into the aggregation with first-writer-wins, until the
// completeness predicate holds or the spender search comes up empty.
func (r *Reconstructor) walkForward(ctx context.Context, curTxid string, height, total int, pieces map[int][]byte) {
	for !complete(pieces, total) {
		spender, err := r.walker.FindSpender(ctx, curTxid, 0, height, r.maxDepth)
		if err != nil {
			r.log.WithField("err", err).Warn("forward chase: spender search failed")
			return
		}
		if spender == nil {
			return
		}

		spenderTx, err := r.fetchTx(ctx, spender.Txid)
		if err != nil {
			r.log.WithField("err", err).Warn("forward chase: could not fetch spender tx")
			return
		}
		if spender.VinIndex >= len(spenderTx.Vin) {
			return
		}

		chunks, err := scriptparse.ParseHex(spenderTx.Vin[spender.VinIndex].ScriptSig.Hex)
		if err != nil {
			return
		}
		cont := inscription.DecodeContinuation(chunks, total, "")
		if cont != nil {
			mergeFirstWriterWins(pieces, cont.Pieces)
		}

		curTxid = spender.Txid
		height = spender.Height
	}
}

func (r *Reconstructor) fetchTx(ctx context.Context, txid string) (*rpcclient.Transaction, error) {
	return r.walker.RPC().GetRawTransaction(ctx, txid)
}

func complete(pieces map[int][]byte, total int) bool {
	for i := 0; i < total; i++ {
		if _, ok := pieces[i]; !ok {
			return false
		}
	}
	return true
}

func mergeFirstWriterWins(into map[int][]byte, from map[int][]byte) {
	for idx, data := range from {
		if _, exists := into[idx]; !exists {
			into[idx] = data
		}
	}
}

// assemble concatenates piece buffers in descending index order
// (total-1, total-2, ..., 0). Missing indices contribute nothing — this is
// the on-chain convention for this system and must be preserved exactly,
// unconventional as it looks next to the usual ascending-index assumption.
func assemble(pieces map[int][]byte, total int) []byte {
	var buffer []byte
	for i := total - 1; i >= 0; i-- {
		if data, ok := pieces[i]; ok {
			buffer = append(buffer, data...)
		}
	}
	return buffer
}
