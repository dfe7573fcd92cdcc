package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-room/contract"
	"chat-room/domain/event"
)

// EventFanoutWorker drains the server event channel and hands every event
// to each registered sink, with a per-sink deadline so one slow sink cannot
// wedge the whole pipeline.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. It is intended for observability and
// side effects (logs, stats), not for core chat logic.
type EventFanoutWorker struct {
	Log         *slog.Logger
	Events      chan event.ServerEvent
	sinkTimeout time.Duration
	sinks       []contract.EventSink
}

func NewEventFanoutWorker(log *slog.Logger, events chan event.ServerEvent, sinkTimeout time.Duration) *EventFanoutWorker {
	return &EventFanoutWorker{Log: log, Events: events, sinkTimeout: sinkTimeout}
}

func (w *EventFanoutWorker) Add(sinks ...contract.EventSink) *EventFanoutWorker {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanoutWorker) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.Events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.Log.Debug("Context done, draining remaining events")
			w.drain()
			return nil
		}
	}
}

// Fanout One sink for each event
func (w *EventFanoutWorker) Fanout(ctx context.Context, evt event.ServerEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.Log.Warn("Sink failed to consume event",
				"type", evt.Type(), "error", err)
		}
		cancel()
	}
}

// drain empties whatever is left in the buffer at shutdown so the final
// stats reflect everything the server did.
func (w *EventFanoutWorker) drain() {
	for {
		select {
		case evt := <-w.Events:
			w.Fanout(context.Background(), evt)
		default:
			return
		}
	}
}
