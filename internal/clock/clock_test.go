package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonic_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	c := NewMonotonic(func() time.Time { return fixed })

	first := c.Now()
	second := c.Now()
	third := c.Now()

	assert.Equal(t, fixed, first)
	assert.Equal(t, fixed.Add(time.Microsecond), second)
	assert.Equal(t, fixed.Add(2*time.Microsecond), third)
}

func TestMonotonic_ClockGoesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2026, time.January, 10, 9, 0, 1, 0, time.UTC),
		time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	i := 0
	c := NewMonotonic(func() time.Time {
		t := times[i]
		i++
		return t
	})

	first := c.Now()
	second := c.Now()
	assert.True(t, second.After(first))
}

func TestMonotonic_Concurrent(t *testing.T) {
	c := NewMonotonic(nil)
	const n = 200

	var mu sync.Mutex
	seen := make(map[time.Time]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts := c.Now()
			mu.Lock()
			seen[ts] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
