// Package sink contains the event consumers wired behind the fan-out
// worker: structured logging and in-memory counters.
package sink

import (
	"context"
	"log/slog"

	"chat-room/domain/event"
)

// LogSink writes one structured line per server event. It is the log
// collaborator of the core: the room and sessions emit events, this sink
// decides how they look on the log output.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Consume(_ context.Context, e event.ServerEvent) error {
	switch evt := e.(type) {
	case event.ConnectionAccepted:
		s.log.Info("Connection accepted",
			"conn_id", evt.ConnID, "remote_addr", evt.RemoteAddr)
	case event.UserJoined:
		s.log.Info("User joined",
			"conn_id", evt.ConnID, "username", evt.Username, "members", evt.Members)
	case event.UserRejected:
		s.log.Info("Connection rejected, room is full",
			"conn_id", evt.ConnID, "remote_addr", evt.RemoteAddr, "members", evt.Members)
	case event.MessageRelayed:
		s.log.Debug("Message relayed",
			"conn_id", evt.ConnID, "username", evt.Username, "recipients", evt.Recipients)
	case event.DeliveryFailed:
		s.log.Warn("Delivery failed",
			"conn_id", evt.ConnID, "username", evt.Username, "reason", evt.Reason)
	case event.UserLeft:
		s.log.Info("User left",
			"conn_id", evt.ConnID, "username", evt.Username, "members", evt.Members)
	case event.WordsCensored:
		s.log.Info("Words censored",
			"conn_id", evt.ConnID, "username", evt.Username, "count", len(evt.Words))
	default:
		s.log.Debug("Unknown event", "type", e.Type())
	}
	return nil
}
