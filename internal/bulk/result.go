package bulk

import (
	"log"
	"strings"

	"golang.org/x/exp/slices"
)

// errorSample bounds how many per-key causes are retained per node; totals
// keep counting past the bound.
const errorSample = 10

// KeyError records one rejected key operation and its cause.
type KeyError struct {
	Key   string
	Cause string
}

// Result aggregates the outcome of all commands executed against one node.
type Result struct {
	Processed int
	Succeeded int
	Failed    int
	Batches   int
	// Errors holds the first errorSample per-key causes.
	Errors []KeyError
	// Err is set when a node-level failure (dial, transport loss, scan
	// abort) stopped work on this node early. It never fails the run.
	Err error
}

func (r *Result) record(key string, cause error) {
	r.Failed++
	if len(r.Errors) < errorSample {
		r.Errors = append(r.Errors, KeyError{Key: key, Cause: cause.Error()})
	}
}

// NodeResult ties a per-node Result to the node's address for reporting.
type NodeResult struct {
	Addr string
	Result
}

// Summary is the merged outcome of one driver run across all target nodes.
type Summary struct {
	PerNode []NodeResult
}

// Totals sums counts across nodes. The error sample keeps the first causes
// in node-address order.
func (s Summary) Totals() Result {
	var t Result
	for _, n := range s.PerNode {
		t.Processed += n.Processed
		t.Succeeded += n.Succeeded
		t.Failed += n.Failed
		t.Batches += n.Batches
		for _, e := range n.Errors {
			if len(t.Errors) < errorSample {
				t.Errors = append(t.Errors, e)
			}
		}
	}
	return t
}

// Log writes the per-node breakdown and totals through the standard logger.
func (s Summary) Log(op string) {
	for _, n := range s.PerNode {
		log.Printf("[%s] %s: processed=%d succeeded=%d failed=%d",
			op, n.Addr, n.Processed, n.Succeeded, n.Failed)
		if n.Err != nil {
			log.Printf("[%s] %s: stopped early: %v", op, n.Addr, n.Err)
		}
		for _, e := range n.Errors {
			log.Printf("[%s] %s: key %q: %s", op, n.Addr, e.Key, e.Cause)
		}
	}
	t := s.Totals()
	log.Printf("[%s] total: processed=%d succeeded=%d failed=%d",
		op, t.Processed, t.Succeeded, t.Failed)
}

// sort orders per-node results by address for deterministic reporting after
// concurrent collection.
func (s *Summary) sort() {
	slices.SortFunc(s.PerNode, func(a, b NodeResult) int {
		return strings.Compare(a.Addr, b.Addr)
	})
}
