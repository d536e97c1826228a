package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndSortable(t *testing.T) {
	const n = 100
	ids := make([]string, n)
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		id := New()
		require.Len(t, id, 26)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		ids[i] = id
	}

	// Generation order matches lexicographic order.
	assert.True(t, sort.StringsAreSorted(ids))
}
