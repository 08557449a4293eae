// Package server hosts the world process: a WebSocket gateway streaming
// chat, sound, and progress events to connected clients, plus a gRPC
// listener exposing the standard health service.
//
// The gateway is an event feed, not state replication; clients that need
// catch-up ask for history.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/net/websocket"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/hollowfall/internal/platform/i18n"
	"github.com/louisbranch/hollowfall/internal/storage"
	"github.com/louisbranch/hollowfall/internal/telemetry"
	"github.com/louisbranch/hollowfall/internal/world"
	"github.com/louisbranch/hollowfall/internal/world/progress"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second

	historyLimit = 50
)

// Config defines the inputs for the world transport boundary.
type Config struct {
	HTTPAddr          string
	GRPCAddr          string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithJournal persists chat and sound events into the journal store.
func WithJournal(journal storage.JournalStore) Option {
	return func(s *Server) {
		s.journal = journal
	}
}

// WithTelemetry emits progress lifecycle telemetry.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(s *Server) {
		s.emitter = emitter
	}
}

// WithMessages overrides the action-message catalog.
func WithMessages(bundle *i18n.Bundle) Option {
	return func(s *Server) {
		s.messages = bundle
	}
}

// WithProgressEvents streams progress registry events through the gateway.
// The channel is consumed for the lifetime of the server.
func WithProgressEvents(events <-chan progress.Event) Option {
	return func(s *Server) {
		s.progressEvents = events
	}
}

// Server hosts the world gateway process.
type Server struct {
	cfg   Config
	world *world.World

	journal        storage.JournalStore
	emitter        *telemetry.Emitter
	messages       *i18n.Bundle
	progressEvents <-chan progress.Event

	httpServer   *http.Server
	grpcServer   *gogrpc.Server
	grpcListener net.Listener
	health       *health.Server

	mu    sync.Mutex
	peers map[*wsPeer]struct{}
}

// New creates a configured world server.
func New(cfg Config, w *world.World, opts ...Option) (*Server, error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("HTTP address is required")
	}
	if w == nil {
		return nil, errors.New("world is required")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		cfg:      cfg,
		world:    w,
		messages: DefaultMessages(),
		peers:    make(map[*wsPeer]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	if strings.TrimSpace(cfg.GRPCAddr) != "" {
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return nil, fmt.Errorf("listen gRPC on %s: %w", cfg.GRPCAddr, err)
		}
		s.grpcListener = listener
		s.grpcServer = gogrpc.NewServer(
			gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
		)
		s.health = health.NewServer()
		grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
		s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	}

	return s, nil
}

// GRPCAddr returns the bound gRPC address, for tests using port 0.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})
	mux.Handle("/ws", websocket.Handler(s.handleWS))
	return mux
}

// ListenAndServe runs the gateway until ctx ends, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is not configured")
	}

	fanCtx, stopFans := context.WithCancel(context.Background())
	defer stopFans()
	s.startFanOut(fanCtx)

	errCh := make(chan error, 2)

	go func() {
		log.Printf("world gateway listening at %s", s.cfg.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if s.grpcServer != nil {
		go func() {
			log.Printf("world gRPC listening at %v", s.grpcListener.Addr())
			errCh <- s.grpcServer.Serve(s.grpcListener)
		}()
	}

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errCh:
		_ = s.shutdown()
		return err
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		firstErr = err
	}
	if s.grpcServer != nil {
		s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		s.grpcServer.GracefulStop()
	}
	return firstErr
}

// Close releases listeners without graceful draining.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	return s.httpServer.Close()
}

// startFanOut wires subsystem events to connected peers, the journal, and
// telemetry.
func (s *Server) startFanOut(ctx context.Context) {
	chatCh, stopChat := s.world.Chat.Subscribe(64)
	go func() {
		defer stopChat()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-chatCh:
				if !ok {
					return
				}
				s.broadcast(frameChat, chatFramePayload(msg))
				if s.journal != nil {
					if err := s.journal.AppendActionMessage(ctx, storage.ActionMessageRecord{
						Performer:     msg.Performer,
						PerformerText: msg.PerformerText,
						OthersText:    msg.OthersText,
						At:            msg.At,
					}); err != nil {
						log.Printf("journal action message: %v", err)
					}
				}
			}
		}
	}()

	soundCh, stopSound := s.world.Audio.Subscribe(64)
	go func() {
		defer stopSound()
		for {
			select {
			case <-ctx.Done():
				return
			case snd, ok := <-soundCh:
				if !ok {
					return
				}
				s.broadcast(frameSound, soundFramePayload(snd))
				if s.journal != nil {
					if err := s.journal.AppendSoundEvent(ctx, storage.SoundEventRecord{
						Name:     snd.Name,
						Position: snd.Position,
						Pitch:    snd.Pitch,
						At:       snd.At,
					}); err != nil {
						log.Printf("journal sound event: %v", err)
					}
				}
			}
		}
	}()

	if s.progressEvents != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case event, ok := <-s.progressEvents:
					if !ok {
						return
					}
					s.broadcast(frameProgress, progressFramePayload(event))
					if s.emitter != nil {
						detail := fmt.Sprintf("handle=%s performer=%s pos=%s", event.HandleID, event.Performer, event.Position)
						if err := s.emitter.Emit(ctx, telemetry.SeverityInfo, "progress."+string(event.Type), detail); err != nil {
							log.Printf("emit progress telemetry: %v", err)
						}
					}
				}
			}
		}()
	}
}
