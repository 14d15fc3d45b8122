package idgen

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Shape(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewWithClock(func() time.Time { return at })

	id := g.NewID()
	assert.Len(t, id, Length)
	assert.True(t, strings.HasPrefix(id, "c"+strconv.FormatInt(at.UnixMilli(), 36)))
}

func TestNewID_SortsByMillisecond(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewWithClock(func() time.Time { return at })
	first := g.NewID()

	at = at.Add(time.Millisecond)
	second := g.NewID()

	require.NotEqual(t, first, second)
	assert.Less(t, first, second)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewID_SuffixHasNoFixedDigits(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewWithClock(func() time.Time { return at })
	start := 1 + len(strconv.FormatInt(at.UnixMilli(), 36))

	seen := make([]map[byte]bool, Length-start)
	for i := range seen {
		seen[i] = make(map[byte]bool)
	}
	for i := 0; i < 200; i++ {
		id := g.NewID()
		for pos := start; pos < Length; pos++ {
			seen[pos-start][id[pos]] = true
		}
	}
	for pos, digits := range seen {
		assert.Greater(t, len(digits), 1, "suffix digit %d never varies", pos)
	}
}
