package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"zordinals/internal/config"
	"zordinals/internal/logging"
	"zordinals/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printError("INVALID_ARGS", "Usage: reconstruct <inscriptionId|txid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError("CONFIG_ERROR", err.Error())
		os.Exit(1)
	}

	log := logging.New(os.Getenv("VERBOSE") != "")

	result, err := service.Reconstruct(context.Background(), os.Args[1], cfg, log)
	if err != nil {
		printError("RECONSTRUCT_FAILED", err.Error())
		os.Exit(1)
	}

	outputJSON, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(outputJSON))
	os.Exit(0)
}

func printError(code, message string) {
	type errorInfo struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	type errorOutput struct {
		OK    bool       `json:"ok"`
		Error *errorInfo `json:"error"`
	}
	errJSON, _ := json.Marshal(errorOutput{OK: false, Error: &errorInfo{Code: code, Message: message}})
	fmt.Println(string(errJSON))
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
