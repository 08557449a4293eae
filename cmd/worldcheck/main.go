// Package main probes a running world process and exits zero once its gRPC
// health service reports SERVING. Intended for container readiness checks
// and deploy scripts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	checkcmd "github.com/louisbranch/hollowfall/internal/cmd/worldcheck"
)

func main() {
	cfg, err := checkcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[WORLDCHECK] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checkcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("health probe failed: %v", err)
	}
}
