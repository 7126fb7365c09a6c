package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"zordinals/internal/config"
	"zordinals/internal/logging"
	"zordinals/internal/rpcclient"
	"zordinals/internal/service"
	"zordinals/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		printError("INVALID_ARGS", "Usage: inspect <txid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError("CONFIG_ERROR", err.Error())
		os.Exit(1)
	}

	log := logging.New(os.Getenv("VERBOSE") != "")
	rpc := rpcclient.New(cfg.NodeRPCURL, cfg.NodeRPCUser, cfg.NodeRPCPass, cfg.RPCTimeout, log)

	result, err := service.Inspect(context.Background(), rpc, os.Args[1])
	if err != nil {
		printError("RPC_ERROR", err.Error())
		os.Exit(1)
	}

	outputJSON, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(outputJSON))
	os.Exit(0)
}

func printError(code, message string) {
	errJSON, _ := json.Marshal(types.InspectResult{OK: false, Error: &types.ErrorInfo{Code: code, Message: message}})
	fmt.Println(string(errJSON))
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
