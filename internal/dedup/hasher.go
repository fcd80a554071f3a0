package dedup

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// Supported hash function names.
const (
	HashXXH64 = "xxh64"
	HashXXH3  = "xxh3"
)

// Hasher computes a 64-bit fingerprint of a payload. Implementations must be
// deterministic and safe for concurrent use.
type Hasher interface {
	Name() string
	Sum64(payload []byte) uint64
}

// xxh64Hasher is XXH64 with seed 0.
type xxh64Hasher struct{}

func (xxh64Hasher) Name() string                { return HashXXH64 }
func (xxh64Hasher) Sum64(payload []byte) uint64 { return xxhash.Sum64(payload) }

// xxh3Hasher is XXH3-64 with seed 0.
type xxh3Hasher struct{}

func (xxh3Hasher) Name() string                { return HashXXH3 }
func (xxh3Hasher) Sum64(payload []byte) uint64 { return xxh3.Hash(payload) }

// NewHasher returns the hasher registered under name.
// An empty name selects XXH64.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", HashXXH64:
		return xxh64Hasher{}, nil
	case HashXXH3:
		return xxh3Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnknownHasher, name, HashXXH64, HashXXH3)
	}
}
