package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"chat-room/domain/event"
	"chat-room/moderation"
)

// TimeFormat matches the historical server log style, rendered in the
// configured timezone. Readability in a shared terminal, not ordering.
const TimeFormat = "[Jan 02, 2006 - 15:04:05]"

// MaxClientsReachedMsg is sent once to a rejected connection before it is
// closed. The missing space after the period is inherited wire behavior
// that existing clients may match on; do not fix it.
const MaxClientsReachedMsg = "Server has reached the maximum amount of clients.Please try again later."

// Room owns the registry, the moderator and the line formatting, and is the
// single entry point sessions and the acceptor use to mutate membership or
// fan a message out.
type Room struct {
	name      string
	registry  *Registry
	moderator *moderation.Moderator
	loc       *time.Location
	events    chan<- event.ServerEvent
	log       *slog.Logger

	// now is swappable for deterministic timestamps in tests.
	now func() time.Time
}

func NewRoom(
	name string,
	registry *Registry,
	moderator *moderation.Moderator,
	loc *time.Location,
	events chan<- event.ServerEvent,
	log *slog.Logger,
) *Room {
	return &Room{
		name:      name,
		registry:  registry,
		moderator: moderator,
		loc:       loc,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

func (r *Room) Registry() *Registry { return r.registry }

func (r *Room) stamp() string {
	return r.now().In(r.loc).Format(TimeFormat)
}

// Prompt is the first line a new connection receives.
func (r *Room) Prompt() string {
	return fmt.Sprintf("%s Please enter your username:", r.stamp())
}

// Welcome is sent privately to a member right after admission.
func (r *Room) Welcome(username string) string {
	return fmt.Sprintf("%s Welcome to %s!\nUsername is %s", r.stamp(), r.name, username)
}

func (r *Room) joinNotice(username string) string {
	return fmt.Sprintf("%s %s has entered the chat.", r.stamp(), username)
}

func (r *Room) leaveNotice(username string) string {
	return fmt.Sprintf("%s %s has disconnected.", r.stamp(), username)
}

func (r *Room) chatLine(username, text string) string {
	return fmt.Sprintf("%s %s: %s", r.stamp(), username, text)
}

// Join runs the admission step for a connection that finished the handshake.
// On success the join notice goes to everybody else; the caller sends the
// private welcome. On failure (room filled between accept and handshake)
// nothing is broadcast and the caller must disconnect silently.
func (r *Room) Join(conn *Connection, username string) bool {
	if !r.registry.TryAdd(conn, username) {
		return false
	}
	r.Broadcast(conn, r.joinNotice(username))
	r.Emit(event.UserJoined{
		ConnID:   conn.ID(),
		Username: username,
		Members:  r.registry.Size(),
		At:       r.now(),
	})
	return true
}

// Relay moderates a chat message and fans it out to every member except the
// sender. The sender never receives its own echo.
func (r *Room) Relay(sender *Connection, username, text string) {
	censored, matched := r.moderator.Censor(text)
	if len(matched) > 0 {
		r.Emit(event.WordsCensored{
			ConnID:   sender.ID(),
			Username: username,
			Words:    matched,
			At:       r.now(),
		})
	}

	recipients := r.broadcast(sender, r.chatLine(username, censored))
	r.Emit(event.MessageRelayed{
		ConnID:     sender.ID(),
		Username:   username,
		Recipients: recipients,
		At:         r.now(),
	})
}

// Broadcast writes the line to every member whose connection is not
// exclude; nil excludes nobody (server-originated notices).
func (r *Room) Broadcast(exclude *Connection, line string) {
	r.broadcast(exclude, line)
}

// broadcast is a best-effort fan-out over a registry snapshot. A write
// error to one recipient never aborts delivery to the rest: the failed
// recipient is disconnected asynchronously and the loop keeps going.
// Returns the number of successful deliveries.
func (r *Room) broadcast(exclude *Connection, line string) int {
	delivered := 0
	for _, member := range r.registry.Snapshot() {
		if member.Conn == exclude {
			continue
		}
		if err := member.Conn.WriteString(line); err != nil {
			r.log.Warn("Failed to deliver to member, disconnecting it",
				"username", member.Username, "conn_id", member.Conn.ID(), "error", err)
			r.Emit(event.DeliveryFailed{
				ConnID:   member.Conn.ID(),
				Username: member.Username,
				Reason:   err.Error(),
				At:       r.now(),
			})
			go r.Disconnect(member.Conn)
			continue
		}
		delivered++
	}
	return delivered
}

// Reject notifies a connection that the room is full and closes it. The
// connection was never a member, so no leave notice can follow.
func (r *Room) Reject(conn *Connection) {
	if err := conn.WriteString(MaxClientsReachedMsg); err != nil {
		r.log.Debug("Rejected connection did not receive the capacity notice",
			"conn_id", conn.ID(), "error", err)
	}
	r.Emit(event.UserRejected{
		ConnID:     conn.ID(),
		RemoteAddr: conn.RemoteAddr(),
		Members:    r.registry.Size(),
		At:         r.now(),
	})
	r.Disconnect(conn)
}

// Disconnect is the single teardown path for a connection and is safe to
// call any number of times, from the connection's own session or from a
// fan-out that failed to write to it. Exactly one leave notice is produced
// per joined member; a connection that never joined leaves silently.
func (r *Room) Disconnect(conn *Connection) {
	if err := conn.Close(); err != nil {
		r.log.Warn("Unexpected error while closing connection",
			"conn_id", conn.ID(), "error", err)
	}

	username, wasMember := r.registry.Remove(conn)
	if !wasMember {
		return
	}

	r.broadcast(conn, r.leaveNotice(username))
	r.Emit(event.UserLeft{
		ConnID:   conn.ID(),
		Username: username,
		Members:  r.registry.Size(),
		At:       r.now(),
	})
}

// DisconnectAll empties the registry and closes every connection without
// leave notices. Bulk shutdown only.
func (r *Room) DisconnectAll() {
	for _, member := range r.registry.Clear() {
		if err := member.Conn.Close(); err != nil {
			r.log.Warn("Unexpected error while closing connection",
				"conn_id", member.Conn.ID(), "error", err)
		}
	}
}

// Emit publishes an event without ever blocking the data path. When the
// buffer is full the event is dropped and counted as a debug line.
func (r *Room) Emit(evt event.ServerEvent) {
	select {
	case r.events <- evt:
	default:
		r.log.Debug("Event buffer full, dropping event", "type", evt.Type())
	}
}
