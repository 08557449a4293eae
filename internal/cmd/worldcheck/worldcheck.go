// Package worldcheck implements the readiness probe command: it dials the
// world gRPC listener and waits for the health service to report SERVING.
package worldcheck

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	entrypoint "github.com/louisbranch/hollowfall/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/hollowfall/internal/platform/grpc"
)

// Config holds worldcheck command configuration.
type Config struct {
	GRPCAddr string        `env:"HOLLOWFALL_WORLD_GRPC_ADDR" envDefault:"localhost:8082"`
	Timeout  time.Duration `env:"HOLLOWFALL_WORLDCHECK_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "world gRPC address to probe")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "how long to wait for SERVING")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run probes the world gRPC health endpoint once, blocking until it serves
// or the timeout elapses.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	conn, err := platformgrpc.DialWithHealth(probeCtx, cfg.GRPCAddr, cfg.Timeout, log.Printf)
	if err != nil {
		return fmt.Errorf("probe %s: %w", cfg.GRPCAddr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("close probe connection: %v", err)
		}
	}()

	log.Printf("world at %s is serving", cfg.GRPCAddr)
	return nil
}
