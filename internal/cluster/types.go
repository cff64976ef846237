package cluster

import (
	"fmt"
	"net"
	"strconv"
)

// SlotCount is the fixed size of the Redis cluster hash-slot space.
const SlotCount = 16384

// Endpoint identifies one reachable node. It is immutable once constructed;
// Auth is carried alongside the address because cluster node tables only
// report host:port and the credential is uniform across the deployment.
type Endpoint struct {
	Host string
	Port int
	Auth string
}

// Addr returns the host:port form used for dialing and reporting.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseAddr parses a host:port string into an Endpoint without a credential.
func ParseAddr(addr string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("address %q: invalid port %q", addr, portStr)
	}
	if host == "" {
		return Endpoint{}, fmt.Errorf("address %q: missing host", addr)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// Mode distinguishes a single-server deployment from a sharded cluster.
type Mode string

const (
	ModeStandalone Mode = "standalone"
	ModeCluster    Mode = "cluster"
)

// Role distinguishes shard owners from their read-only copies.
type Role string

const (
	// RolePrimary marks a node that accepts writes for its slot ranges.
	RolePrimary Role = "primary"
	// RoleReplica marks a read-only copy; replicas are never write targets.
	RoleReplica Role = "replica"
)

// SlotRange is an inclusive interval of hash slots owned by one primary.
type SlotRange struct {
	Start int
	End   int
}

// Contains reports whether slot falls inside the range.
func (r SlotRange) Contains(slot int) bool {
	return slot >= r.Start && slot <= r.End
}

func (r SlotRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Node describes one cluster member as reported by the node table.
// Slots is populated only for primaries in cluster mode.
type Node struct {
	Endpoint Endpoint
	Role     Role
	Slots    []SlotRange
}

// Topology is a point-in-time snapshot of cluster membership. It is
// constructed once per run, shared read-only across node workers, and never
// refreshed mid-operation: staleness shows up as redirection errors on
// individual commands, which the executor records rather than retries.
type Topology struct {
	Mode  Mode
	Nodes []Node
}

// Primaries returns the write targets in node-table order.
func (t Topology) Primaries() []Node {
	var out []Node
	for _, n := range t.Nodes {
		if n.Role == RolePrimary {
			out = append(out, n)
		}
	}
	return out
}

// PrimaryForSlot returns the primary owning the given slot, if any. A miss
// means the snapshot has a coverage gap (degraded cluster).
func (t Topology) PrimaryForSlot(slot int) (Node, bool) {
	for _, n := range t.Nodes {
		if n.Role != RolePrimary {
			continue
		}
		for _, r := range n.Slots {
			if r.Contains(slot) {
				return n, true
			}
		}
	}
	return Node{}, false
}

// CoverageGaps inspects the snapshot against the full slot space and returns
// the ranges no primary owns and the ranges more than one primary claims.
// Both are empty for a healthy cluster. Standalone topologies have no slot
// assignments and always report clean coverage.
func (t Topology) CoverageGaps() (missing, overlapping []SlotRange) {
	if t.Mode != ModeCluster {
		return nil, nil
	}
	var owners [SlotCount]uint8
	for _, n := range t.Primaries() {
		for _, r := range n.Slots {
			for s := r.Start; s <= r.End && s < SlotCount; s++ {
				if owners[s] < 2 {
					owners[s]++
				}
			}
		}
	}
	missing = collectRuns(owners[:], 0)
	overlapping = collectRuns(owners[:], 2)
	return missing, overlapping
}

// collectRuns gathers maximal runs of slots whose owner count equals want.
func collectRuns(owners []uint8, want uint8) []SlotRange {
	var runs []SlotRange
	start := -1
	for s := 0; s <= len(owners); s++ {
		in := s < len(owners) && owners[s] == want
		switch {
		case in && start < 0:
			start = s
		case !in && start >= 0:
			runs = append(runs, SlotRange{Start: start, End: s - 1})
			start = -1
		}
	}
	return runs
}
