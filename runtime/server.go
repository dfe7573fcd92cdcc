package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"chat-room/contract"
	"chat-room/domain/event"
	"chat-room/internal"
	"chat-room/moderation"
	"chat-room/runtime/workers"
)

// Server assembles the whole process: it binds the listener, wires the
// acceptor, the event fan-out and the stats worker under one supervisor,
// and owns the shutdown sequence.
type Server struct {
	log             *slog.Logger
	listener        net.Listener
	room            *Room
	acceptor        *Acceptor
	supervisor      contract.ISupervisor
	shutdownTimeout time.Duration
}

// NewServer builds every component and binds the listening socket. A bind
// failure is returned as-is so the caller can exit non-zero without any
// partial server state left running.
func NewServer(
	log *slog.Logger,
	cfg internal.Config,
	moderator *moderation.Moderator,
	sinks ...contract.EventSink,
) (*Server, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", cfg.TimeZone, err)
	}

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	events := make(chan event.ServerEvent, cfg.BufferSize)
	registry := NewRegistry(cfg.MaxClients)
	room := NewRoom(cfg.RoomName, registry, moderator, loc, events, log)
	acceptor := NewAcceptor(listener, room, log, cfg.ReadBufferSize)

	fanout := workers.NewEventFanoutWorker(log, events, cfg.SinkTimeout).Add(sinks...)
	stats := workers.NewRuntimeStatsWorker(log, cfg.MetricInterval, registry)

	supervisor := workers.NewSupervisor(log, cfg.RestartInterval)
	supervisor.Add(acceptor, fanout, stats)

	return &Server{
		log:             log,
		listener:        listener,
		room:            room,
		acceptor:        acceptor,
		supervisor:      supervisor,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Addr exposes the bound address; with PORT=0 this is how tests learn the
// ephemeral port.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

func (s *Server) Room() *Room { return s.room }

// Run serves until ctx is canceled, then tears everything down: the
// supervisor stops the workers (closing the listener unblocks Accept),
// every live connection is force-closed without leave notices, and the
// session goroutines are drained within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Chat server listening", "addr", s.listener.Addr().String())

	s.supervisor.Run(ctx)

	s.log.Info("Shutting down, disconnecting all members",
		"members", s.room.Registry().Size())
	s.room.DisconnectAll()

	if !s.acceptor.WaitSessions(s.shutdownTimeout) {
		s.log.Warn("Some sessions did not drain before the timeout")
	}
	return nil
}
