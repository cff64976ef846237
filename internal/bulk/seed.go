package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zhangyunhao116/fastrand"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// NumToken is the placeholder in a seed key template replaced by the 1-based
// sequence index.
const NumToken = "{num}"

// SeedOptions configures bulk synthetic seeding.
type SeedOptions struct {
	// Template is the key pattern; it must contain NumToken.
	Template  string
	Count     int
	BatchSize int
}

// Seed writes Count synthetic string records without enumerating existing
// keys; existing keys are silently overwritten. In standalone mode the whole
// sequence streams to the single node in batches. In cluster mode every
// generated key is grouped under the primary owning its hash slot before
// batching, so each node gets bulk pipelined writes instead of one
// round-trip per key.
func Seed(ctx context.Context, topo cluster.Topology, dial NodeDialer, opts SeedOptions) (Summary, error) {
	if !strings.Contains(opts.Template, NumToken) {
		return Summary{}, fmt.Errorf("seed: template %q does not contain %s", opts.Template, NumToken)
	}
	if opts.Count <= 0 {
		return Summary{}, fmt.Errorf("seed: count must be positive, got %d", opts.Count)
	}
	batches, unrouted, err := seedBatches(topo, opts.Template, opts.Count)
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
		return writeNode(ctx, dial, node, "seed", byAddr[node.Endpoint.Addr()], opts.BatchSize)
	})
	if len(unrouted) > 0 {
		sum.PerNode = append(sum.PerNode, unroutedResult(unrouted))
		sum.sort()
	}
	return sum, nil
}

// seedBatches generates the full key sequence and groups it per owning
// primary. Keys whose slot has no owner in a degraded snapshot come back as
// unrouted failures instead of being dropped.
func seedBatches(topo cluster.Topology, template string, count int) ([]nodeBatch, []KeyError, error) {
	primaries := topo.Primaries()
	if len(primaries) == 0 {
		return nil, nil, fmt.Errorf("seed: topology has no primaries")
	}

	now := time.Now().UTC()
	if topo.Mode == cluster.ModeStandalone {
		cmds := make([]Command, 0, count)
		for n := 1; n <= count; n++ {
			cmds = append(cmds, Set(ExpandTemplate(template, n), seedValue(n, now)))
		}
		return []nodeBatch{{node: primaries[0], cmds: cmds}}, nil, nil
	}

	byAddr := make(map[string]int, len(primaries))
	batches := make([]nodeBatch, 0, len(primaries))
	var unrouted []KeyError
	for n := 1; n <= count; n++ {
		key := ExpandTemplate(template, n)
		owner, ok := topo.PrimaryForSlot(cluster.SlotForKey(key))
		if !ok {
			unrouted = append(unrouted, KeyError{
				Key:   key,
				Cause: fmt.Sprintf("no primary owns slot %d", cluster.SlotForKey(key)),
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
		batches[i].cmds = append(batches[i].cmds, Set(key, seedValue(n, now)))
	}
	return batches, unrouted, nil
}

// ExpandTemplate substitutes the 1-based sequence index into the key
// template.
func ExpandTemplate(template string, n int) string {
	return strings.ReplaceAll(template, NumToken, strconv.Itoa(n))
}

type seedPayload struct {
	Seq       int    `json:"seq"`
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	Filler    string `json:"filler"`
}

// seedValue builds the synthetic JSON payload: sequence number, generation
// timestamp, a unique id, and random filler.
func seedValue(seq int, now time.Time) string {
	b, _ := json.Marshal(seedPayload{
		Seq:       seq,
		CreatedAt: now.Format(time.RFC3339),
		ID:        uuid.NewString(),
		Filler:    randomFiller(24),
	})
	return string(b)
}

const fillerAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomFiller(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = fillerAlphabet[fastrand.Uint32n(uint32(len(fillerAlphabet)))]
	}
	return string(b)
}
