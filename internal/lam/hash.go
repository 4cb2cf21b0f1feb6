package lam

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainNode prefixes node hashes. The version suffix allows migrating
// the canonical encoding later.
const DomainNode = "lamir/node/v2"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the content address of n. Trees with equal hashes are
// syntactically identical up to locations and switch names.
func Hash(n Node) (string, error) {
	canonical, err := MarshalCanonical(n)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNode, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHash(n Node) string {
	h, err := Hash(n)
	if err != nil {
		panic(err)
	}
	return h
}
