package catalogs

import (
	"sort"
)

// Topics is an ordered collection of topic records.
type Topics []Topic

// Keys returns the set of normalized keys present in the collection.
// Unidentified records contribute nothing.
func (ts Topics) Keys() map[Key]struct{} {
	keys := make(map[Key]struct{}, len(ts))
	for i := range ts {
		if ts[i].Identified() {
			keys[ts[i].Key()] = struct{}{}
		}
	}
	return keys
}

// Systems returns the distinct system names in the collection, sorted.
func (ts Topics) Systems() []string {
	seen := make(map[string]struct{})
	for i := range ts {
		if ts[i].System != "" {
			seen[ts[i].System] = struct{}{}
		}
	}
	systems := make([]string, 0, len(seen))
	for s := range seen {
		systems = append(systems, s)
	}
	sort.Strings(systems)
	return systems
}

// Copy returns a deep copy of the collection. Keyword slices are
// duplicated so callers cannot alias the originals.
func (ts Topics) Copy() Topics {
	out := make(Topics, len(ts))
	for i := range ts {
		out[i] = ts[i]
		if ts[i].Keywords != nil {
			out[i].Keywords = append([]string(nil), ts[i].Keywords...)
		}
	}
	return out
}
