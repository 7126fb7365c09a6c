// cmd/web is a thin HTTP façade over internal/service — the full façade
// (serving decoded files, node RPC passthrough, credential handling) is out
// of scope for this system; it just reuses the same shared-package call
// pattern as cmd/reconstruct and cmd/inspect.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"zordinals/internal/config"
	"zordinals/internal/logging"
	"zordinals/internal/rpcclient"
	"zordinals/internal/service"
	"zordinals/pkg/types"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Getenv("VERBOSE") != "")

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	r.POST("/api/reconstruct/:idOrTxid", func(c *gin.Context) {
		result, err := service.Reconstruct(c.Request.Context(), c.Param("idOrTxid"), cfg, log)
		if err != nil {
			c.JSON(400, types.InspectResult{OK: false, Error: &types.ErrorInfo{Code: "RECONSTRUCT_FAILED", Message: err.Error()}})
			return
		}
		c.JSON(200, result)
	})

	r.GET("/api/inspect/:txid", func(c *gin.Context) {
		rpc := rpcclient.New(cfg.NodeRPCURL, cfg.NodeRPCUser, cfg.NodeRPCPass, cfg.RPCTimeout, log)
		result, err := service.Inspect(context.Background(), rpc, c.Param("txid"))
		if err != nil {
			c.JSON(400, types.InspectResult{OK: false, Error: &types.ErrorInfo{Code: "RPC_ERROR", Message: err.Error()}})
			return
		}
		c.JSON(200, result)
	})

	fmt.Printf("http://127.0.0.1:%s\n", port)
	r.Run(":" + port)
}
