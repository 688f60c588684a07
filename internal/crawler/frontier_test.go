package crawler_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzumoe/sitescope-api/internal/crawler"
)

func TestFrontier_FIFOOrder(t *testing.T) {
	f := crawler.NewFrontier()
	assert.True(t, f.Push("a", 0))
	assert.True(t, f.Push("b", 1))
	assert.True(t, f.Push("c", 1))

	for _, want := range []crawler.Target{{URL: "a", Depth: 0}, {URL: "b", Depth: 1}, {URL: "c", Depth: 1}} {
		got, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := f.Pop()
	assert.False(t, ok)
	assert.Zero(t, f.Len())
}

func TestFrontier_Deduplicates(t *testing.T) {
	f := crawler.NewFrontier()
	assert.True(t, f.Push("a", 0))
	assert.False(t, f.Push("a", 3), "already queued")

	tgt, _ := f.Pop()
	assert.True(t, f.Visit(tgt.URL))
	assert.False(t, f.Visit(tgt.URL))
	assert.True(t, f.Visited("a"))
	assert.False(t, f.Push("a", 1), "already visited")
	assert.False(t, f.Visited("b"))
}

func TestFrontier_SeenCountsVisitedAndPending(t *testing.T) {
	f := crawler.NewFrontier()
	f.Push("a", 0)
	f.Push("b", 1)
	assert.Equal(t, 2, f.Seen())

	tgt, _ := f.Pop()
	assert.Equal(t, 1, f.Seen())
	f.Visit(tgt.URL)
	assert.Equal(t, 2, f.Seen())
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_CompactsLongQueues(t *testing.T) {
	f := crawler.NewFrontier()
	const n = 5000
	for i := 0; i < n; i++ {
		f.Push(fmt.Sprintf("u%d", i), i)
	}
	for i := 0; i < n; i++ {
		tgt, ok := f.Pop()
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("u%d", i), tgt.URL)
		require.Equal(t, n-i-1, f.Len())
	}
	assert.True(t, f.Push("late", 1))
	tgt, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "late", tgt.URL)
}
