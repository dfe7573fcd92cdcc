package runtime

import (
	"sync"

	"github.com/samber/lo"
)

// Member is one (connection, username) pair copied out of the registry.
type Member struct {
	Conn     *Connection
	Username string
}

// Registry is the authoritative map of joined connections to usernames and
// the only shared mutable structure of the server. Every mutation and every
// full read happens under the lock; nothing under the lock ever touches the
// network. Usernames are not unique, connections are.
type Registry struct {
	mu         sync.RWMutex
	members    map[*Connection]string
	maxClients int
}

func NewRegistry(maxClients int) *Registry {
	return &Registry{
		members:    make(map[*Connection]string),
		maxClients: maxClients,
	}
}

// TryAdd admits the connection if the room is not full. The size check and
// the insert are one atomic step under the lock: two concurrent admissions
// can never both pass the check and push the room over capacity. TryAdd is
// the source of truth; the acceptor's HasRoom check is only an early exit.
func (r *Registry) TryAdd(conn *Connection, username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= r.maxClients {
		return false
	}
	r.members[conn] = username
	return true
}

// Remove takes the connection out of the registry and returns its username.
// ok=false means the connection never completed the handshake (or was
// already removed); the caller must not broadcast a leave notice for it.
func (r *Registry) Remove(conn *Connection) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.members[conn]
	if !ok {
		return "", false
	}
	delete(r.members, conn)
	return username, true
}

// Snapshot copies the current membership out so callers can iterate and
// write to sockets without holding the lock. A member removed right after
// the snapshot simply gets its write error handled by the fan-out.
func (r *Registry) Snapshot() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Member, 0, len(r.members))
	for conn, username := range r.members {
		members = append(members, Member{Conn: conn, Username: username})
	}
	return members
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Registry) HasRoom() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members) < r.maxClients
}

// Usernames returns the current member names, for logs and stats only.
func (r *Registry) Usernames() []string {
	return lo.Map(r.Snapshot(), func(m Member, _ int) string {
		return m.Username
	})
}

// Clear atomically empties the registry and hands back the evicted members.
// Used by bulk shutdown, which closes everyone without leave notices.
func (r *Registry) Clear() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := make([]Member, 0, len(r.members))
	for conn, username := range r.members {
		evicted = append(evicted, Member{Conn: conn, Username: username})
	}
	r.members = make(map[*Connection]string)
	return evicted
}
