// Package cluster provides the topology layer for the bulk key-management
// tools, implementing endpoint addressing, deployment-mode detection, cluster
// membership discovery, and key-to-primary routing over Redis hash slots.
//
// # Overview
//
// Every bulk operation starts by asking a single seed node what kind of
// deployment it belongs to. A standalone server is treated as a trivial
// topology with one primary owning the whole keyspace; a cluster-enabled
// server is asked for its node table, which is parsed into a typed snapshot
// of primaries and the slot ranges they own.
//
// # Architecture
//
// Discovery produces an immutable snapshot that the operation drivers share:
//
//	              ┌──────────────┐
//	              │  Seed node   │
//	              │ INFO cluster │
//	              │ CLUSTER NODES│
//	              └──────┬───────┘
//	                     │ Discover
//	              ┌──────▼───────┐
//	              │   Topology   │
//	              │ (snapshot)   │
//	              └──────┬───────┘
//	      ┌──────────────┼──────────────┐
//	┌─────▼─────┐  ┌─────▼─────┐  ┌─────▼─────┐
//	│ Primary A │  │ Primary B │  │ Primary C │
//	│ 0-5460    │  │ 5461-10922│  │10923-16383│
//	└───────────┘  └───────────┘  └───────────┘
//
// # Core Components
//
// Endpoint: One reachable node
//   - Host, port, and optional credential
//   - Immutable once constructed
//
// Topology: Point-in-time cluster snapshot
//   - Standalone or Cluster mode
//   - Primaries with their owned slot ranges
//   - Read-only shared state after discovery; never re-polled mid-run
//
// Conn: Connection handle
//   - Wraps one go-redis client bound to one node
//   - Exclusively owned by a single worker for its lifetime
//   - All calls bounded by the configured timeout
//
// SlotForKey: Key routing
//   - CRC16 over the hash-tag portion of the key, modulo 16384
//   - Combined with Topology.PrimaryForSlot to group writes per owner
//
// # Degraded Clusters
//
// A healthy cluster covers every slot exactly once. Discovery tolerates a
// snapshot that violates this: malformed node lines are skipped with a
// warning, and CoverageGaps reports missing or doubly-owned ranges so the
// caller can log them. Routing still proceeds against the snapshot; keys
// whose slot has no owner are reported as failures by the drivers rather
// than silently dropped.
package cluster
