package badger

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
)

// Key prefixes for different data types
const (
	locationPrefix      = "loc"
	locationOwnerPrefix = "locown"
	locationPlacePrefix = "locpla"
)

// ownerBits maps an owner ID onto an unsigned value that sorts in the same
// order as the signed one.
func ownerBits(ownerId int64) uint64 {
	return uint64(ownerId) ^ (1 << 63)
}

// makeLocationKey generates a key for a saved location by ID.
// Format: prefix:uuid
func makeLocationKey(id uuid.UUID) []byte {
	prefix := []byte(locationPrefix + ":")
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id[:])
	return buf
}

// makeOwnerKey generates a composite key for the owner index.
// Format: prefix:owner:createdAt:uuid
func makeOwnerKey(ownerId int64, createdAt time.Time, id uuid.UUID) []byte {
	buf := makePartialOwnerKey(ownerId, 8+len(id))
	offset := len(buf) - 8 - len(id)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id[:])
	return buf
}

// makePartialOwnerKey generates the owner index prefix for one owner, with
// extra zeroed bytes reserved at the end.
// Format: prefix:owner
func makePartialOwnerKey(ownerId int64, extra int) []byte {
	prefix := []byte(locationOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+8+extra)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], ownerBits(ownerId))
	return buf
}

// makePlaceKey generates the uniqueness key for an owner's saved place.
// Format: prefix:owner:placeKey
func makePlaceKey(ownerId int64, placeKey core.ID) []byte {
	prefix := []byte(locationPlacePrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], ownerBits(ownerId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(placeKey))
	return buf
}
