// Package config loads process-wide configuration: an optional .env file
// layered under the real environment via godotenv, then viper.AutomaticEnv
// so every lookup also sees process environment variables directly, read
// once at startup and never re-read per call.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"zordinals/internal/zorderr"
)

// Config holds the node RPC credentials and store tunables bound once at
// process startup. RPC credentials are immutable afterwards; live
// reconfiguration belongs to the (out of scope) HTTP facade layer.
type Config struct {
	NodeRPCURL  string
	NodeRPCUser string
	NodeRPCPass string

	ContentDir string
	RPCTimeout time.Duration
	MaxDepth   int
}

const (
	defaultContentDir = "./content"
	defaultTimeout    = 30 * time.Second
	defaultMaxDepth   = 2000
)

// Load reads configuration from the environment, optionally seeded by a
// ".env" file in the working directory. A missing .env file is not an
// error; any other failure loading it (e.g. a malformed file) is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &zorderr.ErrIO{Op: "load .env", Cause: err}
	}
	viper.AutomaticEnv()

	cfg := &Config{
		NodeRPCURL:  viper.GetString("NODE_RPC_URL"),
		NodeRPCUser: viper.GetString("NODE_RPC_USER"),
		NodeRPCPass: viper.GetString("NODE_RPC_PASS"),
		ContentDir:  envOr("CONTENT_DIR", defaultContentDir),
		RPCTimeout:  defaultTimeout,
		MaxDepth:    defaultMaxDepth,
	}

	for _, pair := range []struct {
		name string
		val  string
	}{
		{"NODE_RPC_URL", cfg.NodeRPCURL},
		{"NODE_RPC_USER", cfg.NodeRPCUser},
		{"NODE_RPC_PASS", cfg.NodeRPCPass},
	} {
		if pair.val == "" {
			return nil, &zorderr.ErrConfigMissing{Var: pair.name}
		}
	}

	if secs := viper.GetInt("RPC_TIMEOUT_SECONDS"); secs > 0 {
		cfg.RPCTimeout = time.Duration(secs) * time.Second
	}
	if depth := viper.GetInt("MAX_DEPTH"); depth > 0 {
		cfg.MaxDepth = depth
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := viper.GetString(name); v != "" {
		return v
	}
	return fallback
}
