package worldcheck

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/louisbranch/hollowfall/internal/server"
	"github.com/louisbranch/hollowfall/internal/world"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("worldcheck", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "localhost:8082" {
		t.Fatalf("GRPCAddr = %q, want localhost:8082", cfg.GRPCAddr)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("HOLLOWFALL_WORLD_GRPC_ADDR", "world:9092")

	fs := flag.NewFlagSet("worldcheck", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-timeout", "5s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "world:9092" {
		t.Fatalf("GRPCAddr = %q, want world:9092", cfg.GRPCAddr)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestRunAgainstLiveServer(t *testing.T) {
	srv, err := server.New(server.Config{
		HTTPAddr:        "127.0.0.1:0",
		GRPCAddr:        "127.0.0.1:0",
		ShutdownTimeout: time.Second,
	}, world.New(1))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	if err := Run(ctx, Config{GRPCAddr: srv.GRPCAddr(), Timeout: 10 * time.Second}); err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestRunUnreachable(t *testing.T) {
	err := Run(context.Background(), Config{GRPCAddr: "127.0.0.1:1", Timeout: time.Second})
	if err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
