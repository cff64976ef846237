package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDial verifies that dialing a live server succeeds and that the handle
// is usable for commands afterwards.
func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	ep, err := ParseAddr(mr.Addr())
	require.NoError(t, err)

	conn, err := Dial(context.Background(), ep, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ep, conn.Endpoint())
	require.NoError(t, conn.Client().Set(context.Background(), "k", "v", 0).Err())
	got, err := conn.Client().Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

// TestDialUnreachable verifies that an unreachable seed surfaces as a
// connection error instead of hanging.
func TestDialUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	ep, err := ParseAddr(mr.Addr())
	require.NoError(t, err)
	mr.Close()

	_, err = Dial(context.Background(), ep, 500*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to")
}
