package sink

import (
	"bytes"
	"context"
	"testing"

	"chat-room/domain/event"

	"github.com/stretchr/testify/require"
)

func TestStatsSink_CountsAndPeak(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	stats := NewStatsSink()

	// When three joins and two leaves are consumed
	req.NoError(stats.Consume(ctx, event.UserJoined{Username: "alice"}))
	req.NoError(stats.Consume(ctx, event.UserJoined{Username: "bob"}))
	req.NoError(stats.Consume(ctx, event.UserJoined{Username: "carol"}))
	req.NoError(stats.Consume(ctx, event.UserLeft{Username: "bob"}))
	req.NoError(stats.Consume(ctx, event.UserLeft{Username: "carol"}))
	req.NoError(stats.Consume(ctx, event.MessageRelayed{Username: "alice"}))

	// Then totals, current and peak reflect the sequence
	totals := stats.Totals()
	req.Equal(3, totals[event.UserJoinedType])
	req.Equal(2, totals[event.UserLeftType])
	req.Equal(1, totals[event.MessageRelayedType])
	req.Equal(1, stats.Current())
	req.Equal(3, stats.Peak())
}

func TestStatsSink_CurrentNeverGoesNegative(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	stats := NewStatsSink()

	req.NoError(stats.Consume(ctx, event.UserLeft{Username: "ghost"}))

	req.Equal(0, stats.Current())
	req.Equal(0, stats.Peak())
}

func TestStatsSink_RenderTable(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	stats := NewStatsSink()
	req.NoError(stats.Consume(ctx, event.UserJoined{Username: "alice"}))

	var out bytes.Buffer
	stats.RenderTable(&out)

	rendered := out.String()
	req.Contains(rendered, string(event.UserJoinedType))
	req.Contains(rendered, "PEAK_MEMBERS")
}
