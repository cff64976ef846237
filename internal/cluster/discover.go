package cluster

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ParseError reports a cluster node-table reply that cannot be used for
// routing. It is fatal for a run: without a usable topology no write can be
// placed safely.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "cluster topology: " + e.Reason
}

// Discover queries the seed node for the deployment topology. A server that
// is not cluster-enabled yields a standalone snapshot with the seed as sole
// primary. A cluster-enabled server is asked for its node table, which is
// parsed into primaries and replicas with their slot ranges.
//
// Individual garbled node lines are skipped with a logged warning so one bad
// line cannot drop an otherwise healthy cluster; a reply that yields no
// usable primary at all fails with a ParseError.
func Discover(ctx context.Context, seed *Conn) (Topology, error) {
	info, err := seed.Client().Info(ctx, "cluster").Result()
	if err != nil {
		return Topology{}, fmt.Errorf("cluster info from %s: %w", seed.Endpoint().Addr(), err)
	}
	if !clusterEnabled(info) {
		return Topology{
			Mode:  ModeStandalone,
			Nodes: []Node{{Endpoint: seed.Endpoint(), Role: RolePrimary}},
		}, nil
	}

	raw, err := seed.Client().ClusterNodes(ctx).Result()
	if err != nil {
		return Topology{}, fmt.Errorf("cluster nodes from %s: %w", seed.Endpoint().Addr(), err)
	}
	nodes, warnings, err := parseClusterNodes(raw)
	for _, w := range warnings {
		log.Printf("topology: %s", w)
	}
	if err != nil {
		return Topology{}, err
	}
	return Topology{Mode: ModeCluster, Nodes: nodes}, nil
}

// clusterEnabled reports whether an INFO cluster reply marks the server as
// part of a cluster.
func clusterEnabled(info string) bool {
	for _, line := range strings.Split(info, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "cluster_enabled:1") {
			return true
		}
	}
	return false
}

// parseClusterNodes turns the CLUSTER NODES text reply into typed node
// descriptors. One line per node:
//
//	<id> <host:port@cport> <flags> <primary-id> <ping> <pong> <epoch> <state> [<slot>...]
//
// Slot tokens are either a single slot, an inclusive start-end range, or a
// bracketed migration marker (skipped: a migrating slot still belongs to the
// node listed as its owner in this snapshot).
func parseClusterNodes(raw string) (nodes []Node, warnings []string, err error) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		node, warn := parseNodeLine(line)
		if warn != "" {
			warnings = append(warnings, warn)
			continue
		}
		nodes = append(nodes, node)
	}
	havePrimary := false
	for _, n := range nodes {
		if n.Role == RolePrimary {
			havePrimary = true
			break
		}
	}
	if !havePrimary {
		return nil, warnings, &ParseError{Reason: "no usable primary in CLUSTER NODES reply"}
	}
	return nodes, warnings, nil
}

func parseNodeLine(line string) (Node, string) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return Node{}, fmt.Sprintf("skipping malformed node line (%d fields): %q", len(fields), line)
	}

	flags := strings.Split(fields[2], ",")
	if hasFlag(flags, "noaddr") || hasFlag(flags, "handshake") {
		return Node{}, fmt.Sprintf("skipping unaddressable node %s (%s)", fields[0], fields[2])
	}

	// The address field carries the cluster bus port after '@'.
	addr, _, _ := strings.Cut(fields[1], "@")
	ep, err := ParseAddr(addr)
	if err != nil {
		return Node{}, fmt.Sprintf("skipping node %s: %v", fields[0], err)
	}

	role := RoleReplica
	if hasFlag(flags, "master") {
		role = RolePrimary
	}

	var slots []SlotRange
	for _, tok := range fields[8:] {
		if strings.HasPrefix(tok, "[") {
			continue // slot in migration, owner unchanged in this snapshot
		}
		r, err := parseSlotToken(tok)
		if err != nil {
			return Node{}, fmt.Sprintf("skipping node %s: %v", fields[0], err)
		}
		slots = append(slots, r)
	}
	return Node{Endpoint: ep, Role: role, Slots: slots}, ""
}

func parseSlotToken(tok string) (SlotRange, error) {
	start, end, ranged := strings.Cut(tok, "-")
	s, err := strconv.Atoi(start)
	if err != nil {
		return SlotRange{}, fmt.Errorf("slot token %q: %w", tok, err)
	}
	e := s
	if ranged {
		if e, err = strconv.Atoi(end); err != nil {
			return SlotRange{}, fmt.Errorf("slot token %q: %w", tok, err)
		}
	}
	if s < 0 || e >= SlotCount || s > e {
		return SlotRange{}, fmt.Errorf("slot token %q: out of range", tok)
	}
	return SlotRange{Start: s, End: e}, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
