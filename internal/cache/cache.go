package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte payloads. Used for parsed question-bank files in
// batch runs and for LLM feedback responses keyed by report content.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from an arbitrary identifier (a file path,
// or a serialized report for feedback caching)
func Key(id string) string {
	sum := sha256.Sum256([]byte(id))
	return "rubrica:v1:" + hex.EncodeToString(sum[:])
}
