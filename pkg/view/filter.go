// Package view maintains the presentation side of the catalog: a live
// materialized projection of the remote collection, and a pure
// filter/sort pipeline deriving the presented list from it.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
)

// AllSystems selects every system in the filter.
const AllSystems = "All Systems"

// Filter is the presentation filter state.
type Filter struct {
	// System is AllSystems or one specific system name.
	System string

	// MinYield is the minimum yield score a topic must carry.
	MinYield int

	// Query is a free-text search term. Empty matches everything.
	Query string
}

// DefaultFilter shows every system at yield 3 and above.
func DefaultFilter() Filter {
	return Filter{System: AllSystems, MinYield: 3}
}

// Matches reports whether a single topic passes the filter.
func (f Filter) Matches(t *catalogs.Topic) bool {
	if f.System != "" && f.System != AllSystems && t.System != f.System {
		return false
	}
	if t.YieldScore < f.MinYield {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(t.SearchText(), q) {
			return false
		}
	}
	return true
}

// Apply derives the presented list: passing topics sorted by yield
// score descending, ties broken by title ascending under locale-aware
// collation. The input is not mutated and the result is stable for a
// fixed (topics, filter) pair.
func (f Filter) Apply(topics catalogs.Topics) catalogs.Topics {
	out := make(catalogs.Topics, 0, len(topics))
	for i := range topics {
		if f.Matches(&topics[i]) {
			out = append(out, topics[i])
		}
	}

	c := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].YieldScore != out[j].YieldScore {
			return out[i].YieldScore > out[j].YieldScore
		}
		return c.CompareString(out[i].Title, out[j].Title) < 0
	})
	return out
}
