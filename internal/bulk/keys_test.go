package bulk

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectKeys drains a KeyScan into a sorted slice.
func collectKeys(t *testing.T, s *KeyScan) []string {
	t.Helper()
	var keys []string
	for {
		key, ok := s.Next(context.Background())
		if !ok {
			break
		}
		keys = append(keys, key)
	}
	require.NoError(t, s.Err())
	sort.Strings(keys)
	return keys
}

// TestScanKeysPattern verifies that enumeration returns exactly the keys
// matching the glob, across multiple cursor pages, and nothing else.
func TestScanKeysPattern(t *testing.T) {
	mr, conn := testConn(t)

	var want []string
	for i := 0; i < 25; i++ {
		key := fmt.Sprintf("user:%d", i)
		mr.Set(key, "v")
		want = append(want, key)
	}
	for i := 0; i < 5; i++ {
		mr.Set(fmt.Sprintf("other:%d", i), "v")
	}
	sort.Strings(want)

	// A page hint well below the keyspace size forces cursor continuation.
	got := collectKeys(t, ScanKeys(conn, "user:*", 10))
	assert.Equal(t, want, got)
}

// TestScanKeysNoMatch verifies that a pattern matching nothing yields an
// empty, error-free enumeration.
func TestScanKeysNoMatch(t *testing.T) {
	mr, conn := testConn(t)
	mr.Set("present", "v")

	got := collectKeys(t, ScanKeys(conn, "absent:*", 10))
	assert.Empty(t, got)
}

// TestScanKeysFreshCursor verifies that each call starts a new cursor: two
// consecutive enumerations both see the full keyspace.
func TestScanKeysFreshCursor(t *testing.T) {
	mr, conn := testConn(t)
	for i := 0; i < 8; i++ {
		mr.Set(fmt.Sprintf("k:%d", i), "v")
	}

	first := collectKeys(t, ScanKeys(conn, "k:*", 3))
	second := collectKeys(t, ScanKeys(conn, "k:*", 3))
	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
}

// TestScanKeysTransportLoss verifies that a dropped connection mid-scan
// abandons the enumeration with the error surfaced through Err.
func TestScanKeysTransportLoss(t *testing.T) {
	mr, conn := testConn(t)
	for i := 0; i < 10; i++ {
		mr.Set(fmt.Sprintf("k:%d", i), "v")
	}

	scan := ScanKeys(conn, "k:*", 2)
	_, ok := scan.Next(context.Background())
	require.True(t, ok)

	mr.Close()
	for {
		if _, ok := scan.Next(context.Background()); !ok {
			break
		}
	}
	assert.Error(t, scan.Err())
}
