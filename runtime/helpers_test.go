package runtime

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"chat-room/domain/event"
	"chat-room/moderation"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// fixedNow pins the room clock so formatted lines are predictable.
var fixedNow = time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

const fixedStamp = "[Aug 30, 2026 - 12:00:00]"

// tcpPair accepts one real TCP connection and returns both ends: the
// server-side Connection the room writes to and the raw client socket the
// test reads from. Loopback TCP buffers writes, so fan-outs never block on
// a test that has not read yet.
func tcpPair(t *testing.T) (*Connection, net.Conn) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	client, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)

	select {
	case serverSide := <-accepted:
		t.Cleanup(func() {
			_ = client.Close()
			_ = serverSide.Close()
		})
		return NewConnection(serverSide), client
	case <-time.After(time.Second):
		t.Fatal("accept did not complete")
		return nil, nil
	}
}

func newTestRoom(t *testing.T, maxClients int) (*Room, chan event.ServerEvent) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	moderator, err := moderation.NewModerator([]string{"badger"}, '*', log)
	require.NoError(t, err)

	events := make(chan event.ServerEvent, 64)
	room := NewRoom("Link's Chatroom", NewRegistry(maxClients), moderator, time.UTC, events, log)
	room.now = func() time.Time { return fixedNow }
	return room, events
}

// readPayload reads one payload off the client socket within the deadline.
func readPayload(t *testing.T, conn net.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

// requireSilence asserts nothing arrives on the client socket for a while.
func requireSilence(t *testing.T, conn net.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err == nil {
		t.Fatalf("expected silence, received %q", string(buf[:n]))
	}
	netErr, ok := err.(net.Error)
	require.True(t, ok, "expected a timeout, got %v", err)
	require.True(t, netErr.Timeout(), "expected a timeout, got %v", err)
}

// drainEvents empties the event channel and returns what was collected.
func drainEvents(events chan event.ServerEvent) []event.ServerEvent {
	var collected []event.ServerEvent
	for {
		select {
		case evt := <-events:
			collected = append(collected, evt)
		default:
			return collected
		}
	}
}
