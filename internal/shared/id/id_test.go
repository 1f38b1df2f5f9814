package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()
	assert.NotEqual(t, gen.Generate().String(), gen.Generate().String())
	assert.Len(t, gen.GenerateString(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()
	for _, prefix := range []string{"req", "fit"} {
		id := gen.GenerateWithPrefix(prefix)
		require.True(t, strings.HasPrefix(id, prefix+"_"), id)

		parts := strings.Split(id, "_")
		require.Len(t, parts, 2)
		_, err := ulid.ParseStrict(parts[1])
		assert.NoError(t, err)
	}
}

func TestNewRequestID(t *testing.T) {
	reqID := NewRequestID()
	assert.True(t, strings.HasPrefix(reqID.String(), "req_"))

	parsed, err := ParseRequestID(reqID.String())
	require.NoError(t, err)
	assert.Equal(t, reqID, parsed)
}

func TestParseRequestID(t *testing.T) {
	bare := NewGenerator().GenerateString()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"bare ulid", bare},
		{"foreign prefix", "evil_" + bare},
		{"nested prefix", "x_req_" + bare},
		{"prefix only", "req_"},
		{"not a ulid", "req_zzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{"too short", "req_1234567890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequestID(tt.in)
			assert.ErrorIs(t, err, ErrNotRequestID)
		})
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*idsPerGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- gen.GenerateString()
			}
		}()
	}
	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	for id := range idChan {
		assert.False(t, seen[id], "duplicate ID: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*idsPerGoroutine)
}

func TestLexicographicSorting(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = gen.GenerateString()
		time.Sleep(2 * time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(RequestPrefix)
	}
}
