package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is the fixed HighwayHash key. Fingerprints only need to be
// stable across runs, not secret.
var fingerprintKey = []byte("svgbundle-fingerprint-key-000000")

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a 256-bit HighwayHash of data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := highwayhash.Sum(data, fingerprintKey)
	return hex.EncodeToString(sum[:])
}
