package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("ref")
	assert.Equal(t, "ref-1", gen.Generate())
	assert.Equal(t, "ref-2", gen.Generate())
	assert.Equal(t, "ref-3", gen.Generate())
}

func TestSequentialIDsDefaultPrefix(t *testing.T) {
	assert.Equal(t, "id-1", NewSequentialIDs("").Generate())
}

func TestSequentialIDsThreadSafe(t *testing.T) {
	gen := NewSequentialIDs("t")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}
