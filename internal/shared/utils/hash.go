package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Hasher produces hex sha256 fingerprints
type Hasher struct{}

// DefaultHasher returns the sha256 hasher
func DefaultHasher() *Hasher {
	return &Hasher{}
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// HashJSON hashes the canonical JSON encoding of v. Map keys are sorted
// so equal values hash equally.
func (h *Hasher) HashJSON(v interface{}) (string, error) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// HashFields hashes fields independent of their order. Fields are sorted
// and joined with "|".
func (h *Hasher) HashFields(fields ...string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)

	return h.HashString(strings.Join(sorted, "|"))
}

// ShortHash truncates a hash to 8 characters for display
func ShortHash(full string) string {
	if len(full) < 8 {
		return full
	}
	return full[:8]
}
