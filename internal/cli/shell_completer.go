package cli

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// spaceIDCache caches a user's space ids for autocomplete, refreshing at most
// every ttl.
type spaceIDCache struct {
	mu        sync.Mutex
	userID    string
	ids       []string
	fetchedAt time.Time
	ttl       time.Duration
}

func newSpaceIDCache() *spaceIDCache {
	return &spaceIDCache{ttl: 5 * time.Second}
}

func (c *spaceIDCache) get(spaces service.SpaceService, userID string) []string {
	if userID == "" || spaces == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID == userID && time.Since(c.fetchedAt) < c.ttl {
		return c.ids
	}
	list, err := spaces.ListByUser(context.Background(), userID)
	if err != nil {
		return c.ids
	}
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	c.ids = ids
	c.userID = userID
	c.fetchedAt = time.Now()
	return c.ids
}

// shellBuiltins are the commands the shell handles itself or forwards to
// the command tree.
var shellBuiltins = []string{
	"use", "as", "sprint", "context",
	"board", "new-space", "tools", "user",
	"clear", "help", "exit", "quit",
}

func toolNames() []string {
	catalog := dispatch.Catalog()
	names := make([]string, 0, len(catalog))
	for _, spec := range catalog {
		names = append(names, spec.Name)
	}
	return names
}

func allCommandNames() []string {
	return append(toolNames(), shellBuiltins...)
}

// completeLine returns whole-line completions for line. spaceIDs supplies
// candidates for commands taking a space id.
func completeLine(line string, spaceIDs func() []string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	trailing := strings.HasSuffix(line, " ")
	if len(fields) == 1 && !trailing {
		return filterSuggestions(allCommandNames(), fields[0])
	}

	current := ""
	if !trailing {
		current = fields[len(fields)-1]
	}
	base := line[:len(line)-len(current)]
	argIndex := len(fields) - 1
	if trailing {
		argIndex++
	}

	var pool []string
	head := strings.ToLower(fields[0])
	switch {
	case head == "use" || head == "board":
		if argIndex == 1 && spaceIDs != nil {
			pool = spaceIDs()
		}
	case head == "user":
		if argIndex == 1 {
			pool = []string{"add", "list"}
		}
	default:
		spec, ok := dispatch.Lookup(head)
		if !ok || strings.Contains(current, "=") {
			return nil
		}
		used := make(map[string]bool)
		for _, f := range fields[1:] {
			if k, _, found := strings.Cut(f, "="); found {
				used[k] = true
			}
		}
		for _, p := range spec.Params {
			if !used[p.Name] {
				pool = append(pool, p.Name+"=")
			}
		}
	}

	matches := filterSuggestions(pool, current)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = base + m
	}
	return out
}

// filterSuggestions returns items from pool that start with prefix (case-insensitive).
func filterSuggestions(pool []string, prefix string) []string {
	if prefix == "" {
		return pool
	}
	lp := strings.ToLower(prefix)
	var result []string
	for _, s := range pool {
		if strings.HasPrefix(strings.ToLower(s), lp) {
			result = append(result, s)
		}
	}
	return result
}
