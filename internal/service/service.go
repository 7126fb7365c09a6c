// Package service holds the library-style entry points shared by the
// reconstruct and inspect CLIs and the thin web façade, so the underlying
// logic lives in one importable package rather than inside any one main
// package.
package service

import (
	"context"
	"encoding/hex"

	"github.com/sirupsen/logrus"

	"zordinals/internal/chainwalker"
	"zordinals/internal/config"
	"zordinals/internal/depresolver"
	"zordinals/internal/reconstructor"
	"zordinals/internal/rpcclient"
	"zordinals/internal/store"
	"zordinals/pkg/analyzer"
	"zordinals/pkg/types"
)

// ReconstructSummary is the JSON-friendly result of a reconstruction: the
// reconstructed buffer itself lives on disk under the content directory,
// not in this summary.
type ReconstructSummary struct {
	OK            bool   `json:"ok"`
	InscriptionID string `json:"inscriptionId"`
	MimeType      string `json:"mimeType"`
	FromCache     bool   `json:"fromCache"`
	Bytes         int    `json:"bytes"`
}

// Reconstruct wires up the RPC client, chain walker, content store,
// reconstructor, and dependency resolver from cfg, then runs
// ensureInscription (plus, for HTML/SVG artifacts, dependency resolution)
// for idOrTxid.
func Reconstruct(ctx context.Context, idOrTxid string, cfg *config.Config, log *logrus.Logger) (*ReconstructSummary, error) {
	rpc := rpcclient.New(cfg.NodeRPCURL, cfg.NodeRPCUser, cfg.NodeRPCPass, cfg.RPCTimeout, log)
	walker := chainwalker.New(rpc, log, cfg.MaxDepth)

	st, err := store.New(cfg.ContentDir, log)
	if err != nil {
		return nil, err
	}

	recon := reconstructor.New(walker, st, log, cfg.MaxDepth)

	result, err := recon.EnsureInscription(ctx, idOrTxid)
	if err != nil {
		return nil, err
	}

	resolver := depresolver.New(recon, log)
	resolver.Resolve(ctx, result.MimeType, result.Buffer)

	return &ReconstructSummary{
		OK:            true,
		InscriptionID: result.InscriptionID,
		MimeType:      result.MimeType,
		FromCache:     result.FromCache,
		Bytes:         len(result.Buffer),
	}, nil
}

// Inspect fetches txid over RPC and dumps a human-readable projection of its
// scripts: ASM disassembly, BIP68 relative timelocks, and (for outputs)
// script classification, derived address, and OP_RETURN payload decoding.
// It never attempts envelope decoding, only the shared opcode/push-chunk
// layer that the reconstructor's script parser also builds on.
func Inspect(ctx context.Context, rpc *rpcclient.Client, txid string) (*types.InspectResult, error) {
	tx, err := rpc.GetRawTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}

	result := &types.InspectResult{
		OK:           true,
		Txid:         tx.Txid,
		Locktime:     tx.Locktime,
		LocktimeType: analyzer.GetLocktimeType(*tx),
		RbfSignaling: analyzer.IsRBFSignaling(*tx),
	}

	for _, in := range tx.Vin {
		raw, _ := hex.DecodeString(in.ScriptSig.Hex)
		enabled, tlType, value := analyzer.ParseRelativeTimelock(in)
		result.Vin = append(result.Vin, types.Input{
			Txid:         in.Txid,
			Vout:         in.Vout,
			Sequence:     in.Sequence,
			ScriptSigHex: in.ScriptSig.Hex,
			ScriptAsm:    analyzer.DisassembleScript(raw),
			RelativeTimelock: types.RelativeTimelock{
				Enabled: enabled,
				Type:    tlType,
				Value:   value,
			},
		})
	}

	for _, out := range tx.Vout {
		raw, _ := hex.DecodeString(out.ScriptPubKey.Hex)
		scriptType := analyzer.ClassifyOutputScript(raw)
		output := types.Output{
			N:               out.N,
			ScriptPubkeyHex: out.ScriptPubKey.Hex,
			ScriptAsm:       analyzer.DisassembleScript(raw),
			ScriptType:      scriptType,
			Address:         analyzer.GetAddressFromScript(raw, scriptType, "mainnet"),
		}
		if scriptType == "op_return" {
			output.OpReturnDataHex, output.OpReturnDataUtf8, output.OpReturnProtocol = analyzer.ParseOpReturn(raw)
		}
		result.Vout = append(result.Vout, output)
	}

	return result, nil
}
