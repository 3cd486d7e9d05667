// Package merge reconciles transformed herbs with an existing catalog.
//
// Herbs are matched by their lowercased latin name. A match enriches the
// existing entry in place; anything else is appended. Entries are never
// removed, and merging the same candidates twice leaves the catalog as it
// was after the first merge.
package merge

import (
	"slices"

	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
)

// Stats counts the outcome of a merge. They are reported, not persisted.
// Skipped counts candidates whose key belongs to a preserved entry (see
// catalog.Herb.Preserved), which is left as loaded.
type Stats struct {
	New      int
	Enriched int
	Skipped  int
}

// Merger owns a catalog for the duration of a run.
type Merger struct {
	catalog *catalog.Catalog
	index   map[string]*catalog.Herb
}

// New indexes the existing catalog by merge key. When the catalog already
// holds duplicate keys the first entry is the one enriched.
func New(c *catalog.Catalog) *Merger {
	if c == nil {
		c = catalog.New()
	}
	index := make(map[string]*catalog.Herb, c.Len())
	for _, h := range c.Herbs {
		key := h.Key()
		if _, ok := index[key]; !ok {
			index[key] = h
		}
	}
	return &Merger{catalog: c, index: index}
}

// Catalog returns the merged catalog.
func (m *Merger) Catalog() *catalog.Catalog {
	return m.catalog
}

// Merge folds candidates into the catalog in order.
func (m *Merger) Merge(candidates []catalog.Herb) Stats {
	var stats Stats
	for i := range candidates {
		switch m.add(candidates[i]) {
		case added:
			stats.New++
		case enriched:
			stats.Enriched++
		default:
			stats.Skipped++
		}
	}
	return stats
}

type outcome int

const (
	added outcome = iota
	enriched
	skipped
)

// add inserts or enriches one candidate.
func (m *Merger) add(candidate catalog.Herb) outcome {
	key := candidate.Key()
	existing, ok := m.index[key]
	switch {
	case !ok:
		h := candidate
		m.catalog.Append(&h)
		m.index[key] = &h
		return added
	case existing.Preserved():
		return skipped
	}
	Enrich(existing, candidate)
	return enriched
}

// Enrich updates existing from candidate: provenance is replaced, sources
// and tags are unioned, and folk uses are filled only when missing.
func Enrich(existing *catalog.Herb, candidate catalog.Herb) {
	if candidate.PFAF != nil {
		p := *candidate.PFAF
		p.CareRequirements = append([]string(nil), candidate.PFAF.CareRequirements...)
		existing.PFAF = &p
	}
	existing.Sources = appendMissing(existing.Sources, candidate.Sources)
	existing.Tags = union(existing.Tags, candidate.Tags)
	if existing.FolkUses == "" && candidate.FolkUses != "" {
		existing.FolkUses = candidate.FolkUses
	}
}

// appendMissing appends the items of add not already in base, leaving base
// itself untouched. Comparison is exact.
func appendMissing(base, add []string) []string {
	out := append([]string(nil), base...)
	for _, s := range add {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// union returns the set union of base and add, base order first.
func union(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
