package main

import (
	"os"

	"github.com/lablabs/cloudflare-analytics/internal/cli"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Error("Application failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
