package bulk

import (
	"context"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// DefaultScanCount is the per-page hint passed to SCAN.
const DefaultScanCount = 1000

// KeyScan lazily enumerates keys matching a glob pattern on one node using
// the incremental SCAN cursor, so enumeration never blocks the node the way
// a full KEYS listing would. The pattern is passed through verbatim to the
// server's native matching; no client-side filtering happens.
//
// Each KeyScan starts a fresh cursor and is not restartable: a transport
// loss mid-scan abandons the enumeration with Err set.
type KeyScan struct {
	conn    *cluster.Conn
	pattern string
	count   int64
	cursor  uint64
	buf     []string
	started bool
	done    bool
	err     error
}

// ScanKeys starts an enumeration of keys matching pattern on the node behind
// conn. count is the SCAN page-size hint.
func ScanKeys(conn *cluster.Conn, pattern string, count int64) *KeyScan {
	if count <= 0 {
		count = DefaultScanCount
	}
	return &KeyScan{conn: conn, pattern: pattern, count: count}
}

// Next yields the next key, in whatever order the cursor returns them.
// It reports false when the keyspace is exhausted or an error occurred;
// callers distinguish the two through Err.
func (s *KeyScan) Next(ctx context.Context) (string, bool) {
	for len(s.buf) == 0 {
		if s.done || s.err != nil {
			return "", false
		}
		if s.started && s.cursor == 0 {
			s.done = true
			return "", false
		}
		// SCAN may legitimately return empty pages mid-iteration, so keep
		// following the cursor until it wraps to zero.
		page, cursor, err := s.conn.Client().Scan(ctx, s.cursor, s.pattern, s.count).Result()
		if err != nil {
			s.err = err
			return "", false
		}
		s.started = true
		s.cursor = cursor
		s.buf = page
	}
	key := s.buf[0]
	s.buf = s.buf[1:]
	return key, true
}

// Err reports the transport error that ended the enumeration early, if any.
func (s *KeyScan) Err() error { return s.err }
