package runtime

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"chat-room/domain/event"
	"chat-room/errors"
)

// Acceptor is the supervised worker that owns the listening socket. It
// admits connections through the capacity gate and spawns one session
// goroutine per admitted connection.
type Acceptor struct {
	listener net.Listener
	room     *Room
	log      *slog.Logger
	bufSize  int

	sessions sync.WaitGroup
}

func NewAcceptor(listener net.Listener, room *Room, log *slog.Logger, bufSize int) *Acceptor {
	return &Acceptor{listener: listener, room: room, log: log, bufSize: bufSize}
}

// Run blocks on Accept until the listener is closed. Context cancellation
// closes the listener, which is the only way to unblock Accept; a closed
// listener ends the loop cleanly, any other accept error is logged and the
// loop keeps serving.
func (a *Acceptor) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = a.listener.Close()
	}()

	for {
		netConn, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.IsBenignClose(err) {
				a.log.Info("Listener closed, acceptor stopping")
				return nil
			}
			a.log.Warn("Accept failed, continuing", "error", err)
			continue
		}

		conn := NewConnection(netConn)
		a.room.Emit(event.ConnectionAccepted{
			ConnID:     conn.ID(),
			RemoteAddr: conn.RemoteAddr(),
			At:         time.Now(),
		})

		// Early gate. TryAdd re-checks under the lock during the handshake,
		// so the window between this check and admission is harmless.
		if !a.room.Registry().HasRoom() {
			a.log.Info("Room is full, rejecting connection",
				"remote_addr", conn.RemoteAddr())
			a.room.Reject(conn)
			continue
		}

		a.sessions.Add(1)
		go func() {
			defer a.sessions.Done()
			NewSession(conn, a.room, a.log, a.bufSize).Run(ctx)
		}()
	}
}

// WaitSessions blocks until every session goroutine has returned or the
// timeout elapses. Sessions unblock as soon as their connections are
// closed, so after DisconnectAll this converges quickly.
func (a *Acceptor) WaitSessions(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
