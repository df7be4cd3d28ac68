package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckhand/internal/config"
	"github.com/peterkuimelis/deckhand/internal/log"
	deckhandmcp "github.com/peterkuimelis/deckhand/internal/mcp"
	"github.com/peterkuimelis/deckhand/internal/tools"
)

func main() {
	configPath := flag.String("config", "deckhand.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "log cache and network activity to stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; diagnostics go to stderr only.
	var logger log.EventLogger
	if *verbose {
		logger = log.NewTextLogger(os.Stderr)
	}
	kit := tools.New(cfg, logger)

	s := server.NewMCPServer("deckhand", "1.0.0")
	deckhandmcp.RegisterTools(s, kit)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
