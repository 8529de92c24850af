package utils

import (
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

// stringHasher hashes any type with an underlying string representation.
type stringHasher[K ~string] struct{}

func (stringHasher[K]) Equal(a, b K) bool { return a == b }

func (stringHasher[K]) Hash(a K) uint32 {
	h := fnv.New32a()
	h.Write([]byte(a))
	return h.Sum32()
}

// StringHasher is a hasher for named string types, e.g. variable names.
func StringHasher[K ~string]() immutable.Hasher[K] { return stringHasher[K]{} }
