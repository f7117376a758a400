package kdf

import (
	"bytes"
	"testing"
)

func TestCombine(t *testing.T) {
	a := []byte("csidh shared secret")
	b := []byte("x25519 shared secret")

	k1 := Combine("hybrid", a, b)
	if len(k1) != Size {
		t.Errorf("Expected secret length %d, got %d", Size, len(k1))
	}

	// deterministic
	if !bytes.Equal(k1, Combine("hybrid", a, b)) {
		t.Fatal("Combine is not deterministic")
	}

	// Case 1: different label
	if bytes.Equal(k1, Combine("other", a, b)) {
		t.Fatal("Label does not affect the output")
	}

	// Case 2: order matters
	if bytes.Equal(k1, Combine("hybrid", b, a)) {
		t.Fatal("Part order does not affect the output")
	}

	// Case 3: moving bytes across the boundary
	shifted := Combine("hybrid", a[:len(a)-1], append([]byte{a[len(a)-1]}, b...))
	if bytes.Equal(k1, shifted) {
		t.Fatal("Part boundaries are ambiguous")
	}
}

func TestCombineLongLabel(t *testing.T) {
	long := string(bytes.Repeat([]byte("L"), 100))
	k := Combine(long, []byte("x"))
	if len(k) != Size {
		t.Errorf("Expected secret length %d, got %d", Size, len(k))
	}
}

func TestConcat(t *testing.T) {
	got := Concat([]byte{1, 2}, nil, []byte{3})
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
}
