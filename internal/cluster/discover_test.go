package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A realistic CLUSTER NODES reply: three primaries (one of them "myself"),
// three replicas, cluster bus ports after '@', and a migrating slot marker.
const healthyNodesReply = `07c37dfeb235213a872192d90877d0cd55635b91 10.0.0.4:7003@17003 slave e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca 0 1426238317239 4 connected
67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 10.0.0.2:7001@17001 master - 0 1426238316232 2 connected 5461-10922 [5500->-e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca]
292f8b365bb7edb5e285caf0b7e6ddc7265d2f4f 10.0.0.5:7004@17004 slave 67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 0 1426238316232 3 connected
6ec23923021cf3ffec47632106199cb7f496ce01 10.0.0.6:7005@17005 slave 824fe116063bc5fcf9f4ffd895bc17aee7731ac3 0 1426238316232 5 connected
824fe116063bc5fcf9f4ffd895bc17aee7731ac3 10.0.0.3:7002@17002 master - 0 1426238317741 6 connected 10923-16383
e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca 10.0.0.1:7000@17000 myself,master - 0 0 1 connected 0-5460
`

// TestParseClusterNodesHealthy verifies that a full reply parses into typed
// descriptors with addresses, roles, and slot ranges intact.
func TestParseClusterNodesHealthy(t *testing.T) {
	nodes, warnings, err := parseClusterNodes(healthyNodesReply)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, nodes, 6)

	topo := Topology{Mode: ModeCluster, Nodes: nodes}
	prim := topo.Primaries()
	require.Len(t, prim, 3)

	// The bus port suffix must be stripped from addresses.
	for _, n := range nodes {
		assert.NotContains(t, n.Endpoint.Addr(), "@")
	}

	// The migration marker on the second primary is not a slot assignment.
	node, ok := topo.PrimaryForSlot(5500)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", node.Endpoint.Host)
	assert.Equal(t, []SlotRange{{Start: 5461, End: 10922}}, node.Slots)

	missing, overlapping := topo.CoverageGaps()
	assert.Empty(t, missing)
	assert.Empty(t, overlapping)
}

// TestParseClusterNodesGarbledLine verifies that one bad line is skipped with
// a warning while the rest of the cluster still parses.
func TestParseClusterNodesGarbledLine(t *testing.T) {
	raw := `e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca 10.0.0.1:7000@17000 myself,master - 0 0 1 connected 0-8191
garbage line that is not a node entry
824fe116063bc5fcf9f4ffd895bc17aee7731ac3 10.0.0.3:7002@17002 master - 0 1426238317741 6 connected 8192-16383
`
	nodes, warnings, err := parseClusterNodes(raw)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "malformed node line")
}

// TestParseClusterNodesBadSlots verifies that unparsable slot tokens drop the
// offending line only.
func TestParseClusterNodesBadSlots(t *testing.T) {
	raw := `e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca 10.0.0.1:7000@17000 master - 0 0 1 connected 0-bogus
824fe116063bc5fcf9f4ffd895bc17aee7731ac3 10.0.0.3:7002@17002 master - 0 1426238317741 6 connected 0-16383
`
	nodes, warnings, err := parseClusterNodes(raw)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "10.0.0.3", nodes[0].Endpoint.Host)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "slot token")
}

// TestParseClusterNodesNoUsablePrimary verifies the fatal case: a reply in
// which nothing can serve as a write target must fail loudly, not return an
// empty topology.
func TestParseClusterNodesNoUsablePrimary(t *testing.T) {
	raw := `not a node line at all
another broken line
`
	_, warnings, err := parseClusterNodes(raw)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, warnings, 2)
}

// TestParseClusterNodesSkipsUnaddressable verifies that handshake and noaddr
// entries never become routing targets.
func TestParseClusterNodesSkipsUnaddressable(t *testing.T) {
	raw := `aaaa :0@0 master,noaddr - 0 0 1 connected 0-100
bbbb 10.0.0.9:7009@17009 handshake - 0 0 1 connected
cccc 10.0.0.1:7000@17000 master - 0 0 1 connected 0-16383
`
	nodes, warnings, err := parseClusterNodes(raw)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "10.0.0.1", nodes[0].Endpoint.Host)
	assert.Len(t, warnings, 2)
}

// TestParseSlotToken covers the single-slot, range, and invalid forms.
func TestParseSlotToken(t *testing.T) {
	r, err := parseSlotToken("42")
	require.NoError(t, err)
	assert.Equal(t, SlotRange{Start: 42, End: 42}, r)
	assert.Equal(t, "42", r.String())

	r, err = parseSlotToken("0-5460")
	require.NoError(t, err)
	assert.Equal(t, SlotRange{Start: 0, End: 5460}, r)
	assert.Equal(t, "0-5460", r.String())

	for _, tok := range []string{"x", "10-x", "-5", "100-50", "0-16384"} {
		_, err := parseSlotToken(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

// TestClusterEnabled verifies detection of the cluster_enabled flag in an
// INFO cluster section.
func TestClusterEnabled(t *testing.T) {
	assert.True(t, clusterEnabled("# Cluster\r\ncluster_enabled:1\r\n"))
	assert.False(t, clusterEnabled("# Cluster\r\ncluster_enabled:0\r\n"))
	assert.False(t, clusterEnabled(""))
}
