// Package main runs the grammar analyzer HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/history"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/server"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		addr        = flag.String("addr", ":8080", "listen address for the HTTP API")
		historyPath = flag.String("history", "", "path to the sqlite history database (empty disables history)")
		certFile    = flag.String("cert", "", "TLS certificate file (enables HTTPS)")
		keyFile     = flag.String("key", "", "TLS key file")
		http3Addr   = flag.String("http3-addr", "", "optional HTTP/3 listen address (requires -cert and -key)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("PLCD Grammar Analyzer server v%s (%s)\n", version, commit)
		return
	}

	if err := run(*addr, *historyPath, *certFile, *keyFile, *http3Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run(addr, historyPath, certFile, keyFile, http3Addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hist *history.Store
	if historyPath != "" {
		var err error
		hist, err = history.Open(historyPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer hist.Close()
		log.Printf("history enabled at %s", historyPath)
	}

	srv := server.New(server.Config{Version: version, History: hist})

	if http3Addr != "" {
		if certFile == "" || keyFile == "" {
			return fmt.Errorf("-http3-addr requires -cert and -key")
		}
		h3, err := server.NewHTTP3ServerFromFiles(http3Addr, certFile, keyFile, srv.Handler())
		if err != nil {
			return fmt.Errorf("configure http/3: %w", err)
		}
		realAddr, err := h3.Start()
		if err != nil {
			return fmt.Errorf("start http/3: %w", err)
		}
		defer h3.Stop()
		log.Printf("http/3 listening on %s", realAddr)
	}

	log.Printf("listening on %s", addr)
	if certFile != "" && keyFile != "" {
		return srv.StartTLSGraceful(ctx, addr, certFile, keyFile)
	}
	return srv.StartGraceful(ctx, addr)
}
