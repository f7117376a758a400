// Package kdf derives shared secrets from several input secrets and
// builds the concatenated wire form of composite keys.
package kdf

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of a derived secret.
const Size = 32

// Combine derives a secret from several input secrets:
// BLAKE2b-256(label, len(s1) || s1 || len(s2) || s2 ...).
// Each part is length-prefixed so the split between parts is unambiguous.
func Combine(label string, parts ...[]byte) []byte {
	key := []byte(label)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// only reachable with a key longer than 64 bytes
		panic(err)
	}

	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return h.Sum(nil)
}

// Concat joins byte slices. Hybrid keys use it for their wire format.
func Concat(parts ...[]byte) []byte {
	var size int
	for _, p := range parts {
		size += len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
