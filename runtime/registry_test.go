package runtime

import (
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// pipeConn builds a throwaway connection; registry tests never write to it.
func pipeConn(t *testing.T) *Connection {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return NewConnection(server)
}

func TestRegistry_TryAdd_UntilCapacity(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(2)

	// Given an empty registry
	req.Equal(0, registry.Size())
	req.True(registry.HasRoom())

	// When two members are admitted
	req.True(registry.TryAdd(pipeConn(t), "alice"))
	req.True(registry.TryAdd(pipeConn(t), "bob"))

	// Then the registry is exactly at capacity
	req.Equal(2, registry.Size())
	req.False(registry.HasRoom())

	// And a third admission fails without mutating anything
	req.False(registry.TryAdd(pipeConn(t), "carol"))
	req.Equal(2, registry.Size())
}

func TestRegistry_TryAdd_Concurrent_NeverExceedsCapacity(t *testing.T) {
	req := require.New(t)
	const maxClients = 10
	const contenders = maxClients + 7
	registry := NewRegistry(maxClients)

	// When more connections than the capacity race for admission
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		conn := pipeConn(t)
		go func(i int) {
			defer wg.Done()
			if registry.TryAdd(conn, fmt.Sprintf("user_%d", i)) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// Then exactly maxClients got in, the rest were refused
	req.Equal(maxClients, admitted)
	req.Equal(maxClients, registry.Size())
	req.False(registry.HasRoom())
}

func TestRegistry_Remove_Member(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(5)
	conn := pipeConn(t)

	// Given an admitted member
	req.True(registry.TryAdd(conn, "alice"))

	// When it is removed
	username, ok := registry.Remove(conn)

	// Then its username comes back and the slot is freed
	req.True(ok)
	req.Equal("alice", username)
	req.Equal(0, registry.Size())

	// And removing it again reports it was not a member
	_, ok = registry.Remove(conn)
	req.False(ok)
}

func TestRegistry_Remove_NeverAMember(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(5)

	// When a connection that never joined is removed
	username, ok := registry.Remove(pipeConn(t))

	// Then the registry reports it was never a member
	req.False(ok)
	req.Empty(username)
}

func TestRegistry_Snapshot_IsACopy(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(5)
	conn := pipeConn(t)
	req.True(registry.TryAdd(conn, "alice"))

	// When a snapshot is taken and the member is removed afterwards
	snapshot := registry.Snapshot()
	_, ok := registry.Remove(conn)
	req.True(ok)

	// Then the snapshot still holds the member it saw
	req.Len(snapshot, 1)
	req.Equal("alice", snapshot[0].Username)
	req.Equal(0, registry.Size())
}

func TestRegistry_Usernames(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(5)
	req.True(registry.TryAdd(pipeConn(t), "alice"))
	req.True(registry.TryAdd(pipeConn(t), "bob"))

	req.ElementsMatch([]string{"alice", "bob"}, registry.Usernames())
}

func TestRegistry_Clear_EvictsEverybody(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(5)
	req.True(registry.TryAdd(pipeConn(t), "alice"))
	req.True(registry.TryAdd(pipeConn(t), "bob"))

	// When the registry is cleared
	evicted := registry.Clear()

	// Then both members are handed back and the registry is empty again
	req.Len(evicted, 2)
	req.Equal(0, registry.Size())
	req.True(registry.HasRoom())
}
