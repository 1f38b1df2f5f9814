// Package id generates request identifiers.
//
// IDs are ULIDs: lexicographically sortable by creation time and safe to
// generate from concurrent handlers. A type prefix keeps them readable in logs
// (req_01HV...).
package id

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request
type RequestID string

// RequestPrefix tags request IDs
const RequestPrefix = "req"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id RequestID) String() string { return string(id) }

// ErrNotRequestID is returned for strings that are not "req_"-prefixed ULIDs
var ErrNotRequestID = errors.New("not a request id")

// ParseRequestID accepts only IDs of the form req_<ULID>
func ParseRequestID(s string) (RequestID, error) {
	rest, ok := strings.CutPrefix(s, RequestPrefix+"_")
	if !ok {
		return "", fmt.Errorf("%w: missing %s_ prefix", ErrNotRequestID, RequestPrefix)
	}
	if _, err := ulid.ParseStrict(rest); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRequestID, err)
	}
	return RequestID(s), nil
}
