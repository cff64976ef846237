package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimeout bounds every network call made through a Conn unless the
// caller configures otherwise.
const DefaultTimeout = 5 * time.Second

// Conn is a thin handle over one client connection to one node. A Conn is
// exclusively owned by a single worker for its lifetime and is never shared:
// enumeration and batch execution over it are strictly sequential.
type Conn struct {
	ep  Endpoint
	rdb *redis.Client
}

// Dial connects to the given endpoint and verifies liveness with a PING.
// Every subsequent call on the connection is bounded by timeout; exceeding
// it surfaces as an error on that call, never as a process-wide hang.
func Dial(ctx context.Context, ep Endpoint, timeout time.Duration) (*Conn, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         ep.Addr(),
		Password:     ep.Auth,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to %s: %w", ep.Addr(), err)
	}
	return &Conn{ep: ep, rdb: rdb}, nil
}

// Endpoint returns the node this connection is bound to.
func (c *Conn) Endpoint() Endpoint { return c.ep }

// Client exposes the underlying client for issuing commands.
func (c *Conn) Client() *redis.Client { return c.rdb }

// Close releases the connection.
func (c *Conn) Close() error { return c.rdb.Close() }
