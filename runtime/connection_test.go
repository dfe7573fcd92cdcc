package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnection_CloseIsIdempotent(t *testing.T) {
	req := require.New(t)
	conn, _ := tcpPair(t)

	// When the connection is closed twice
	req.NoError(conn.Close())

	// Then the second close is a no-op, not an error
	req.NoError(conn.Close())
}

func TestConnection_WriteAfterCloseFails(t *testing.T) {
	req := require.New(t)
	conn, _ := tcpPair(t)

	req.NoError(conn.Close())

	// A fan-out hitting a closed member must get an error back so it can
	// disconnect that member, not a silent success.
	req.Error(conn.WriteString("late"))
}

func TestConnection_WriteReachesThePeer(t *testing.T) {
	req := require.New(t)
	conn, client := tcpPair(t)

	req.NoError(conn.WriteString("hello"))

	req.Equal("hello", readPayload(t, client))
}
