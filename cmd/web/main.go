package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/deckhand/internal/config"
	"github.com/peterkuimelis/deckhand/internal/tools"
	"github.com/peterkuimelis/deckhand/internal/web"
)

func main() {
	configPath := flag.String("config", "deckhand.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Web.Addr = *addr
	}

	srv := web.NewServer(tools.New(cfg, nil))

	log.Printf("deckhand deck viewer listening on %s", cfg.Web.Addr)
	if err := srv.ListenAndServe(cfg.Web.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
