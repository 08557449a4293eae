// Package world parses world command flags and composes the server
// entrypoint.
package world

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	entrypoint "github.com/louisbranch/hollowfall/internal/platform/cmd"
	"github.com/louisbranch/hollowfall/internal/random"
	"github.com/louisbranch/hollowfall/internal/server"
	"github.com/louisbranch/hollowfall/internal/storage/sqlite"
	"github.com/louisbranch/hollowfall/internal/telemetry"
	worldsim "github.com/louisbranch/hollowfall/internal/world"
	"github.com/louisbranch/hollowfall/internal/world/progress"
	"github.com/louisbranch/hollowfall/internal/world/script"
)

// Config holds world command configuration.
type Config struct {
	HTTPAddr    string `env:"HOLLOWFALL_WORLD_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr    string `env:"HOLLOWFALL_WORLD_GRPC_ADDR" envDefault:":8082"`
	StoragePath string `env:"HOLLOWFALL_WORLD_DB_PATH"   envDefault:"world.db"`
	WorldDef    string `env:"HOLLOWFALL_WORLD_DEF_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "world gateway HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "world gRPC listen address")
	fs.StringVar(&cfg.StoragePath, "db-path", cfg.StoragePath, "journal SQLite path (empty disables the journal)")
	fs.StringVar(&cfg.WorldDef, "world-def", cfg.WorldDef, "world definition TOML path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the world and serves the gateway until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorld, func(ctx context.Context) error {
		def, err := LoadDefinition(cfg.WorldDef)
		if err != nil {
			return err
		}

		events := make(chan progress.Event, 64)
		w := worldsim.New(random.SeedOrNow(), progress.WithObserver(func(event progress.Event) {
			select {
			case events <- event:
			default:
			}
		}))

		loader := script.NewLoader(w.Entities)
		for _, path := range def.Scripts {
			count, err := loader.LoadFile(path)
			if err != nil {
				return fmt.Errorf("load item script %s: %w", path, err)
			}
			log.Printf("loaded %d items from %s", count, path)
		}

		opts := []server.Option{server.WithProgressEvents(events)}
		if cfg.StoragePath != "" {
			store, err := sqlite.Open(cfg.StoragePath)
			if err != nil {
				return fmt.Errorf("open journal store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("close journal store: %v", err)
				}
			}()
			opts = append(opts,
				server.WithJournal(store),
				server.WithTelemetry(telemetry.NewEmitter(store, entrypoint.ServiceWorld)),
			)
		}

		srv, err := server.New(server.Config{
			HTTPAddr: cfg.HTTPAddr,
			GRPCAddr: cfg.GRPCAddr,
		}, w, opts...)
		if err != nil {
			return err
		}

		go w.Run(ctx, time.Duration(def.TickMS)*time.Millisecond)

		return srv.ListenAndServe(ctx)
	})
}
