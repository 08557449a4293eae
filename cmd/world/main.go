// Package main starts the world simulation service and handles termination.
//
// The process hosts the interaction plane (tool use, progress, chat, audio)
// behind a WebSocket gateway; durable state lives in the journal store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	worldcmd "github.com/louisbranch/hollowfall/internal/cmd/world"
)

func main() {
	cfg, err := worldcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[WORLD] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worldcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
