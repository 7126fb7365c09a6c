package rpcclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"zordinals/internal/rpcclient"
)

const rawTxHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff00ffffffff0100000000000000000000000000"

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return log
}

func writeResult(w http.ResponseWriter, result any) {
	body, _ := json.Marshal(map[string]any{"result": result, "error": nil, "id": 1})
	w.Write(body)
}

func writeRPCError(w http.ResponseWriter, message string) {
	body, _ := json.Marshal(map[string]any{
		"result": nil,
		"error":  map[string]any{"code": -1, "message": message},
		"id":     1,
	})
	w.Write(body)
}

func TestGetRawTransactionUsesVerboseFormWhenAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, map[string]any{"txid": "abc", "locktime": 0})
	}))
	defer srv.Close()

	c := rpcclient.New(srv.URL, "user", "pass", time.Second, testLogger())
	tx, err := c.GetRawTransaction(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "abc", tx.Txid)
}

func TestGetRawTransactionFallsBackToBooleanVerbosityOnRejection(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		switch v := req.Params[1].(type) {
		case float64:
			writeRPCError(w, "Invalid type for verbosity, must be boolean")
		case bool:
			require.True(t, v)
			writeResult(w, map[string]any{"txid": "boolform", "locktime": 0})
		default:
			t.Fatalf("unexpected verbosity param type %T", v)
		}
	}))
	defer srv.Close()

	c := rpcclient.New(srv.URL, "user", "pass", time.Second, testLogger())
	tx, err := c.GetRawTransaction(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "boolform", tx.Txid)
	require.Equal(t, 2, calls)
}

func TestGetRawTransactionFallsBackToRawHexOnUnrelatedError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// First attempt (verbosity=1) is rejected for a reason unrelated
			// to boolean/verbosity handling, so the client must skip the
			// boolean retry entirely and go straight to the raw hex fetch.
			writeRPCError(w, "No such mempool or blockchain transaction")
			return
		}
		writeResult(w, rawTxHex)
	}))
	defer srv.Close()

	c := rpcclient.New(srv.URL, "user", "pass", time.Second, testLogger())
	tx, err := c.GetRawTransaction(context.Background(), "abc")
	require.NoError(t, err)
	require.Empty(t, tx.BlockHash, "raw-hex fallback never recovers a block hash")
	require.Len(t, tx.Vin, 1)
	require.Len(t, tx.Vout, 1)
	require.Equal(t, 2, calls, "boolean-verbosity retry must be skipped")
}
