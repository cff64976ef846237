package cluster

import "strings"

// SlotForKey maps a key to its hash slot using the cluster keyslot rule:
// when the key contains a non-empty {...} hash tag, only the tag is hashed,
// so related keys can be pinned to one slot. The hash is CRC16/XMODEM
// reduced modulo the slot count, matching what the server computes for
// CLUSTER KEYSLOT.
//
// Computing this client-side is what lets the seed and populate drivers
// group generated keys per owning primary before batching, instead of
// asking the server where each key lives one round-trip at a time.
func SlotForKey(key string) int {
	if open := strings.IndexByte(key, '{'); open >= 0 {
		if n := strings.IndexByte(key[open+1:], '}'); n > 0 {
			key = key[open+1 : open+1+n]
		}
	}
	return int(crc16([]byte(key)) % SlotCount)
}

// crc16 implements CRC-16/XMODEM (poly 0x1021, init 0, MSB first), the
// checksum the server uses for slot assignment.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
