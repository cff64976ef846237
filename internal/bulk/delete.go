package bulk

import (
	"context"
	"errors"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// DeleteOptions configures a bulk pattern deletion.
type DeleteOptions struct {
	// Pattern is a glob passed verbatim to the server's SCAN matching.
	Pattern   string
	BatchSize int
	ScanCount int64
}

// Delete removes every key matching the pattern from each target primary:
// the single node in standalone mode, every primary in cluster mode. Each
// node is scanned with its own cursor and deletions are flushed in pipelined
// batches. A pattern matching zero keys is not an error; it reports zero
// deletions.
func Delete(ctx context.Context, topo cluster.Topology, dial NodeDialer, opts DeleteOptions) (Summary, error) {
	if opts.Pattern == "" {
		return Summary{}, errors.New("delete: empty pattern")
	}
	primaries := topo.Primaries()
	if len(primaries) == 0 {
		return Summary{}, errors.New("delete: topology has no primaries")
	}
	sum := fanOut(ctx, primaries, func(ctx context.Context, node cluster.Node) Result {
		return deleteNode(ctx, dial, node, opts)
	})
	return sum, nil
}

func deleteNode(ctx context.Context, dial NodeDialer, node cluster.Node, opts DeleteOptions) Result {
	conn, err := dial(ctx, node.Endpoint)
	if err != nil {
		return Result{Err: err}
	}
	defer conn.Close()

	exec := NewExecutor(conn, opts.BatchSize)
	exec.OnBatch(progressLogger("delete", node.Endpoint.Addr()))

	scan := ScanKeys(conn, opts.Pattern, opts.ScanCount)
	for {
		key, ok := scan.Next(ctx)
		if !ok {
			break
		}
		if err := exec.Add(ctx, Del(key)); err != nil {
			return exec.Result()
		}
	}
	if err := scan.Err(); err != nil {
		res := exec.Result()
		res.Err = err
		return res
	}
	if err := exec.Flush(ctx); err != nil {
		return exec.Result()
	}
	return exec.Result()
}
