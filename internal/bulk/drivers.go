package bulk

import (
	"context"
	"log"
	"sync"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// progressEvery is the reporting cadence for long-running jobs, in processed
// items per node.
const progressEvery = 1000

// NodeDialer opens an exclusively-owned connection to one node. The CLI
// closes this over the shared credential and timeout; tests substitute their
// own.
type NodeDialer func(ctx context.Context, ep cluster.Endpoint) (*cluster.Conn, error)

// fanOut runs fn once per target node, one worker per node, and merges the
// per-node results. Targets are independent shards with disjoint keyspaces,
// so workers never coordinate beyond the read-only topology snapshot they
// share. Cancellation is honored before each node starts; a node-level
// failure lands in that node's Result and never stops the others.
func fanOut(ctx context.Context, targets []cluster.Node, fn func(ctx context.Context, node cluster.Node) Result) Summary {
	var (
		mu  sync.Mutex
		sum Summary
		wg  sync.WaitGroup
	)
	for _, node := range targets {
		wg.Add(1)
		go func(node cluster.Node) {
			defer wg.Done()
			res := Result{Err: ctx.Err()}
			if res.Err == nil {
				res = fn(ctx, node)
			}
			mu.Lock()
			sum.PerNode = append(sum.PerNode, NodeResult{Addr: node.Endpoint.Addr(), Result: res})
			mu.Unlock()
		}(node)
	}
	wg.Wait()
	sum.sort()
	return sum
}

// nodeBatch is the per-primary command group the generating drivers form
// before execution.
type nodeBatch struct {
	node cluster.Node
	cmds []Command
}

// writeNode streams pre-grouped commands to one node through an executor.
func writeNode(ctx context.Context, dial NodeDialer, node cluster.Node, op string, cmds []Command, batchSize int) Result {
	conn, err := dial(ctx, node.Endpoint)
	if err != nil {
		return Result{Err: err}
	}
	defer conn.Close()

	exec := NewExecutor(conn, batchSize)
	exec.OnBatch(progressLogger(op, node.Endpoint.Addr()))
	for _, cmd := range cmds {
		if err := exec.Add(ctx, cmd); err != nil {
			return exec.Result()
		}
	}
	if err := exec.Flush(ctx); err != nil {
		return exec.Result()
	}
	return exec.Result()
}

// unroutedResult folds keys that no primary owns into the summary as a
// synthetic node entry so they show up in totals and reporting.
func unroutedResult(unrouted []KeyError) NodeResult {
	res := Result{Processed: len(unrouted), Failed: len(unrouted)}
	for i := range unrouted {
		if len(res.Errors) < errorSample {
			res.Errors = append(res.Errors, unrouted[i])
		}
	}
	return NodeResult{Addr: "(no owner)", Result: res}
}

// progressLogger reports cumulative per-node progress at a fixed cadence so
// long-running bulk jobs communicate liveness.
func progressLogger(op, addr string) func(Result) {
	last := 0
	return func(r Result) {
		if r.Processed-last < progressEvery {
			return
		}
		last = r.Processed
		log.Printf("[%s] %s: %d processed", op, addr, r.Processed)
	}
}
