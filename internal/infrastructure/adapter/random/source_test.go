package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSeededSource_Reproducible(t *testing.T) {
	a := NewSeededSource(1, 2)
	b := NewSeededSource(1, 2)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Int63n(1000), b.Int63n(1000))
	}
}

func TestSource_Bounds(t *testing.T) {
	src := NewSource()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64Range(1, 1<<40).Draw(t, "n")
		v := src.Int63n(n)
		if v < 0 || v >= n {
			t.Fatalf("Int63n(%d) = %d out of range", n, v)
		}
	})
}

func TestSource_ConcurrentUse(t *testing.T) {
	src := NewSource()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = src.Int63n(10)
			}
		}()
	}
	wg.Wait()
}

func TestSource_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { NewSeededSource(1, 1).Int63n(0) })
}
