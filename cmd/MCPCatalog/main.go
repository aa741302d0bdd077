package main

import (
	"os"

	"MCPCatalog/pkg/zlog"
)

func main() {
	defer zlog.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
