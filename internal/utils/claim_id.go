package utils

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// NewClaimID derives a fresh claim identifier from the claimant, the pool and the
// creation time. A random nonce keeps ids unique even for identical inputs.
func NewClaimID(claimantAddress, poolReference string, createdAt time.Time) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(claimantAddress))
	hasher.Write([]byte(poolReference))

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(createdAt.UnixNano()))
	hasher.Write(ts[:])

	nonce := uuid.New()
	hasher.Write(nonce[:])

	return "0x" + hex.EncodeToString(hasher.Sum(nil))
}
