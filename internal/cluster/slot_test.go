package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCRC16 pins the checksum to the CRC-16/XMODEM check value.
func TestCRC16(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), crc16([]byte("123456789")))
	assert.Equal(t, uint16(0), crc16(nil))
}

// TestSlotForKeyKnownValues pins slot computation against values the server
// returns for CLUSTER KEYSLOT.
func TestSlotForKeyKnownValues(t *testing.T) {
	assert.Equal(t, 12739, SlotForKey("123456789")) // 0x31C3 % 16384
	assert.Equal(t, 12182, SlotForKey("foo"))
	assert.Equal(t, 5061, SlotForKey("bar"))
}

// TestSlotForKeyHashTag verifies the {...} pinning rule: only the first
// non-empty tag is hashed, so related keys land on one slot.
func TestSlotForKeyHashTag(t *testing.T) {
	base := SlotForKey("user1000")
	assert.Equal(t, base, SlotForKey("{user1000}.following"))
	assert.Equal(t, base, SlotForKey("{user1000}.followers"))

	// An empty tag means the whole key is hashed.
	assert.Equal(t, SlotForKey("foo{}{bar}"), int(crc16([]byte("foo{}{bar}"))%SlotCount))

	// Only the first tag counts.
	assert.Equal(t, SlotForKey("{bar}"), SlotForKey("foo{bar}{zap}"))

	// An unterminated brace is not a tag.
	assert.Equal(t, int(crc16([]byte("foo{bar"))%SlotCount), SlotForKey("foo{bar"))
}

// TestSlotForKeyRange verifies every computed slot stays inside the slot
// space.
func TestSlotForKeyRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		slot := SlotForKey(fmt.Sprintf("item:%d", i))
		assert.GreaterOrEqual(t, slot, 0)
		assert.Less(t, slot, SlotCount)
	}
}
