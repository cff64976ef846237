package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/butskristof/redis-tools/internal/cluster"
	"github.com/butskristof/redis-tools/internal/source"
)

// PopulateOptions configures bulk hash-field population.
type PopulateOptions struct {
	Records   []source.Record
	BatchSize int
}

// Populate issues one multi-field hash write per record, routed in cluster
// mode to the primary owning the record's key and batched per node. It is
// idempotent: re-running with the same input overwrites the named fields and
// leaves any other fields on the target hash untouched.
func Populate(ctx context.Context, topo cluster.Topology, dial NodeDialer, opts PopulateOptions) (Summary, error) {
	if len(opts.Records) == 0 {
		return Summary{}, errors.New("populate: no records")
	}
	batches, unrouted, err := populateBatches(topo, opts.Records)
	if err != nil {
		return Summary{}, err
	}

	targets := make([]cluster.Node, 0, len(batches))
	byAddr := make(map[string][]Command, len(batches))
	for _, b := range batches {
		targets = append(targets, b.node)
		byAddr[b.node.Endpoint.Addr()] = b.cmds
	}

	sum := fanOut(ctx, targets, func(ctx context.Context, node cluster.Node) Result {
		return writeNode(ctx, dial, node, "populate", byAddr[node.Endpoint.Addr()], opts.BatchSize)
	})
	if len(unrouted) > 0 {
		sum.PerNode = append(sum.PerNode, unroutedResult(unrouted))
		sum.sort()
	}
	return sum, nil
}

// populateBatches groups records per owning primary, mirroring seedBatches.
func populateBatches(topo cluster.Topology, records []source.Record) ([]nodeBatch, []KeyError, error) {
	primaries := topo.Primaries()
	if len(primaries) == 0 {
		return nil, nil, errors.New("populate: topology has no primaries")
	}

	if topo.Mode == cluster.ModeStandalone {
		cmds := make([]Command, 0, len(records))
		for _, rec := range records {
			cmds = append(cmds, HSet(rec.Key, rec.Values))
		}
		return []nodeBatch{{node: primaries[0], cmds: cmds}}, nil, nil
	}

	byAddr := make(map[string]int, len(primaries))
	batches := make([]nodeBatch, 0, len(primaries))
	var unrouted []KeyError
	for _, rec := range records {
		owner, ok := topo.PrimaryForSlot(cluster.SlotForKey(rec.Key))
		if !ok {
			unrouted = append(unrouted, KeyError{
				Key:   rec.Key,
				Cause: fmt.Sprintf("no primary owns slot %d", cluster.SlotForKey(rec.Key)),
			})
			continue
		}
		addr := owner.Endpoint.Addr()
		i, seen := byAddr[addr]
		if !seen {
			i = len(batches)
			byAddr[addr] = i
			batches = append(batches, nodeBatch{node: owner})
		}
		batches[i].cmds = append(batches[i].cmds, HSet(rec.Key, rec.Values))
	}
	return batches, unrouted, nil
}
