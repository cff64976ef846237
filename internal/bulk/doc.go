// Package bulk implements the execution engine for the bulk key-management
// operations: pattern deletion, synthetic seeding, and hash-field population.
//
// # Overview
//
// Each operation driver takes a previously discovered topology snapshot and
// fans out across its primaries, since primaries are independent shards with
// disjoint keyspaces. Within one node everything is sequential over a single
// exclusively-owned connection: enumerate (or generate), accumulate commands
// into bounded batches, and flush each batch as one pipelined round-trip.
//
// # Architecture
//
//	┌───────────────────────────────────────┐
//	│   Driver (Delete / Seed / Populate)   │
//	│   topology fan-out, one goroutine     │
//	│   per primary, results merged         │
//	└───────┬───────────────┬───────────────┘
//	        │               │
//	  ┌─────▼─────┐   ┌─────▼─────┐
//	  │ KeyScan   │   │ generator │
//	  │ (SCAN     │   │ (seed /   │
//	  │  cursor)  │   │  records) │
//	  └─────┬─────┘   └─────┬─────┘
//	        │               │
//	  ┌─────▼───────────────▼─────┐
//	  │        Executor           │
//	  │  batch ≤ B, one pipeline  │
//	  │  Exec per batch, replies  │
//	  │  matched by position      │
//	  └───────────┬───────────────┘
//	        ┌─────▼─────┐
//	        │   Conn    │
//	        └───────────┘
//
// # Failure Model
//
// A command-level rejection (wrong type, stale-topology redirection) is
// recorded in the node's Result and never aborts the batch. A transport
// failure marks the rest of that batch failed and stops work on that node;
// other node workers continue. Only failures that make routing unsafe
// (unreachable seed, unparsable topology) are fatal for the whole run.
//
// Cancellation is honored between batches and between nodes; an in-flight
// pipelined round-trip is allowed to complete.
//
// # Composing New Drivers
//
// KeyScan and Executor are exported so further drivers can be built from the
// same primitives: anything that can enumerate a source shard and emit
// Commands against a target node (for example a cross-deployment copy) plugs
// into the same topology fan-out and failure model.
package bulk
