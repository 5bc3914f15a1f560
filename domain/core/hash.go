package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeFieldsHash builds a hash over an ordered list of printable fields.
// Field order is part of the fingerprint contract, so callers must keep it
// stable across versions.
func ComputeFieldsHash(fields ...interface{}) Hash {
	var data strings.Builder
	for i, f := range fields {
		if i > 0 {
			data.WriteString("|")
		}
		data.WriteString(fmt.Sprintf("%v", f))
	}
	return NewHash([]byte(data.String()))
}
