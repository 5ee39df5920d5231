package memory

import (
	"testing"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

func TestLRUTTLBasic(t *testing.T) {
	c := NewLRUTTL[string, string](4, time.Minute)
	c.Set("a", "1")
	v, ok := c.Get("a")
	tester.True(t, ok)
	tester.Eq(t, v, "1")

	_, ok = c.Get("missing")
	tester.False(t, ok)
}

func TestLRUTTLEvictsOldestFirst(t *testing.T) {
	c := NewLRUTTL[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	tester.False(t, ok, "oldest entry evicted at capacity")
	_, ok = c.Get("b")
	tester.True(t, ok)
	_, ok = c.Get("c")
	tester.True(t, ok)
	tester.Eq(t, c.Len(), 2)
}

func TestLRUTTLRecencyOrder(t *testing.T) {
	c := NewLRUTTL[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	tester.False(t, ok)
	_, ok = c.Get("a")
	tester.True(t, ok)
}

func TestLRUTTLExpiryIsMiss(t *testing.T) {
	now := time.Now()
	c := NewLRUTTL[string, string](4, 5*time.Minute)
	c.SetClock(func() time.Time { return now })
	c.Set("k", "v")

	// 10 minutes later the 5 minute TTL has lapsed.
	c.SetClock(func() time.Time { return now.Add(10 * time.Minute) })
	_, ok := c.Get("k")
	tester.False(t, ok, "expired entry is a miss")
	tester.Eq(t, c.Len(), 0)
}
