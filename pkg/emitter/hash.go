package emitter

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex encoded BLAKE2b-256 digest of data. It is the
// manifest checksum of a file and the dev server's ETag.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
