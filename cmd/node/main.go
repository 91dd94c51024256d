package main

import (
	"flag"
	"os"

	"goncoin/config"
	"goncoin/logging"
	"goncoin/node"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.Node.LogLevel)

	n := node.New(cfg)
	if err := n.Start(); err != nil {
		logging.Errorf("Failed to start node: %v", err)
		os.Exit(1)
	}

	// The node runs until the process is killed; the ledger is volatile
	// and starts over from genesis on the next boot.
	select {}
}
