package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// DefaultBatchSize is the pipelined batch bound used when a caller passes a
// non-positive size.
const DefaultBatchSize = 1000

// Executor applies commands against one node in bounded pipelined batches.
// Commands accumulate up to the batch size and flush as a single round-trip;
// replies are matched to commands by position since the protocol preserves
// request order. Batching bounds peak memory and keeps progress reporting
// granular while retaining most of the round-trip savings of pipelining.
//
// An Executor is bound to one connection and is not safe for concurrent use.
type Executor struct {
	conn      *cluster.Conn
	batchSize int
	pending   []Command
	res       Result
	onBatch   func(Result)
}

// NewExecutor builds an executor over an exclusively-owned connection.
func NewExecutor(conn *cluster.Conn, batchSize int) *Executor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Executor{
		conn:      conn,
		batchSize: batchSize,
		pending:   make([]Command, 0, batchSize),
	}
}

// OnBatch registers a callback invoked after every flushed batch with the
// cumulative result so far. Drivers use it for progress reporting.
func (e *Executor) OnBatch(fn func(Result)) { e.onBatch = fn }

// Add queues a command, flushing when the batch is full. A returned error is
// node-fatal (cancellation or transport loss); per-command rejections are
// recorded in the result instead.
func (e *Executor) Add(ctx context.Context, cmd Command) error {
	e.pending = append(e.pending, cmd)
	if len(e.pending) >= e.batchSize {
		return e.Flush(ctx)
	}
	return nil
}

// Flush issues the accumulated commands as one pipelined round-trip.
// Cancellation is checked here, at the batch boundary: commands not yet
// sent are dropped unprocessed.
func (e *Executor) Flush(ctx context.Context) error {
	if len(e.pending) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		e.pending = e.pending[:0]
		e.res.Err = err
		return err
	}

	batch := e.pending
	e.pending = e.pending[:0]

	pipe := e.conn.Client().Pipeline()
	replies := make([]redis.Cmder, len(batch))
	for i, cmd := range batch {
		replies[i] = cmd.apply(ctx, pipe)
	}
	_, _ = pipe.Exec(ctx)

	e.res.Processed += len(batch)
	e.res.Batches++
	for i, reply := range replies {
		err := reply.Err()
		if err == nil {
			e.res.Succeeded++
			continue
		}
		var redisErr redis.Error
		if errors.As(err, &redisErr) {
			// Rejected by the server (wrong type, MOVED from a stale
			// snapshot). Recorded, never aborts the batch.
			e.res.record(batch[i].key, err)
			continue
		}
		// Transport failure: this command and everything after it in the
		// batch never received a reply. No reconnects here; the driver
		// owns the retry decision for the node.
		for _, cmd := range batch[i:] {
			e.res.record(cmd.key, err)
		}
		e.res.Err = fmt.Errorf("pipeline to %s: %w", e.conn.Endpoint().Addr(), err)
		return e.res.Err
	}

	if e.onBatch != nil {
		e.onBatch(e.res)
	}
	return nil
}

// Result returns the cumulative outcome. Callers must Flush first to account
// for a partial final batch.
func (e *Executor) Result() Result { return e.res }
