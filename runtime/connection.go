package runtime

import (
	"net"
	"sync"

	"chat-room/errors"

	"github.com/google/uuid"
)

// Connection wraps a peer socket with an identity for logs and a write lock.
// Reads are only ever performed by the owning session, so they need no
// serialization; writes come from any goroutine running a fan-out, so a
// mutex keeps two lines from interleaving their bytes on one socket.
type Connection struct {
	id   uuid.UUID
	conn net.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func NewConnection(conn net.Conn) *Connection {
	return &Connection{id: uuid.New(), conn: conn}
}

func (c *Connection) ID() uuid.UUID { return c.id }

func (c *Connection) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

// Read blocks until the peer sends something, the peer closes, or Close is
// called from another goroutine (net.Conn.Close unblocks pending reads).
// No timeout on purpose: an idle chatter is not an error.
func (c *Connection) Read(buf []byte) (int, error) {
	return c.conn.Read(buf)
}

// WriteString sends the payload as-is. The wire protocol has no framing:
// one write is intended to be one recv on the other side, small payloads
// and a small peer count make that assumption hold in practice.
func (c *Connection) WriteString(payload string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write([]byte(payload))
	return err
}

// Close shuts the socket down in both directions, once. Half-closing the
// write side first lets the peer observe an orderly EOF before the hard
// close. Benign already-closed errors are swallowed, anything else is kept
// and returned on every call.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		if tcp, ok := c.conn.(*net.TCPConn); ok {
			if err := tcp.CloseWrite(); err != nil && !errors.IsBenignClose(err) {
				c.closeErr = err
			}
		}
		if err := c.conn.Close(); err != nil && !errors.IsBenignClose(err) {
			c.closeErr = err
		}
	})
	return c.closeErr
}
