package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chat-room/errors"
)

// MaxUsernameSize is the cap, in runes, on a username. Longer names are
// truncated, not rejected.
const MaxUsernameSize = 20

// Session drives one connection from the username prompt to teardown.
// States: connected (raw socket) -> handshaking (prompt sent) -> joined
// (registered, relaying) -> closed. Closed is terminal and reached only
// through Room.Disconnect, whoever triggers it.
type Session struct {
	conn    *Connection
	room    *Room
	log     *slog.Logger
	bufSize int
}

func NewSession(conn *Connection, room *Room, log *slog.Logger, bufSize int) *Session {
	return &Session{conn: conn, room: room, log: log, bufSize: bufSize}
}

// Run performs the handshake and then relays messages until the peer goes
// away. Reads have no timeout; shutdown closes the connection, which
// unblocks any pending read and makes it return a benign error.
func (s *Session) Run(ctx context.Context) {
	username, joined := s.handshake()
	if !joined {
		// Either the peer died mid-handshake or the room filled up in the
		// meantime. No notice was broadcast, none will be.
		s.room.Disconnect(s.conn)
		return
	}

	if err := s.conn.WriteString(s.room.Welcome(username)); err != nil {
		s.log.Warn("Failed to send welcome", "username", username, "error", err)
		s.room.Disconnect(s.conn)
		return
	}

	s.relayLoop(ctx, username)
	s.room.Disconnect(s.conn)
}

// handshake prompts for a username and reads exactly one buffer as the
// reply. Admission happens here: TryAdd can still refuse a connection the
// acceptor let through, because capacity may have filled during the prompt.
func (s *Session) handshake() (string, bool) {
	if err := s.conn.WriteString(s.room.Prompt()); err != nil {
		s.log.Warn("Failed to send username prompt",
			"conn_id", s.conn.ID(), "error", err)
		return "", false
	}

	buf := make([]byte, s.bufSize)
	n, err := s.conn.Read(buf)
	if err != nil {
		if !errors.IsBenignClose(err) {
			s.log.Warn("Read failed during handshake",
				"conn_id", s.conn.ID(), "error", err)
		}
		return "", false
	}

	username := s.normalizeUsername(string(buf[:n]))
	if !s.room.Join(s.conn, username) {
		s.log.Info("Room filled up during handshake, turning connection away",
			"conn_id", s.conn.ID(), "remote_addr", s.conn.RemoteAddr())
		return "", false
	}
	return username, true
}

// normalizeUsername trims the raw reply, synthesizes User_<N> for an empty
// one (N is the current member count, collisions are accepted behavior)
// and truncates anything longer than MaxUsernameSize runes.
func (s *Session) normalizeUsername(raw string) string {
	username := strings.TrimSpace(raw)
	if username == "" {
		return fmt.Sprintf("User_%d", s.room.Registry().Size())
	}
	if runes := []rune(username); len(runes) > MaxUsernameSize {
		return string(runes[:MaxUsernameSize])
	}
	return username
}

// relayLoop reads one message per read call (the protocol has no framing)
// and hands it to the room. A malformed payload is logged and skipped:
// bad bytes must not kill an otherwise healthy connection. EOF or any
// read error ends the loop, and with it the session.
func (s *Session) relayLoop(ctx context.Context, username string) {
	buf := make([]byte, s.bufSize)
	for {
		if ctx.Err() != nil {
			return
		}

		n, err := s.conn.Read(buf)
		if err != nil {
			if !errors.IsBenignClose(err) {
				s.log.Warn("Read failed, ending session",
					"username", username, "error", err)
			}
			return
		}
		if n == 0 {
			continue
		}

		text := string(buf[:n])
		if !utf8.ValidString(text) {
			s.log.Warn("Discarding malformed payload",
				"username", username, "bytes", n)
			continue
		}

		s.room.Relay(s.conn, username, text)
	}
}
