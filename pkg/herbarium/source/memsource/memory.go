package memsource

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/herbarium/pkg/herbarium/source"
)

// Use is one use annotation of a plant.
type Use struct {
	Category string
	Name     string
}

// Plant is a plant row together with its joined annotations.
type Plant struct {
	source.Row
	Uses []Use
	Care []string
}

// Source is an in-memory implementation of source.Reader for tests. It
// applies the same predicate, grouping and ordering as the SQL reader. As
// in SQL, the predicate filters joined rows before aggregation: a plant
// that qualifies only through its medicinal use category reports only the
// names of its medicinal uses.
type Source struct {
	mu     sync.RWMutex
	plants []Plant
}

// New creates a source holding the given plants.
func New(plants ...Plant) *Source {
	return &Source{plants: append([]Plant(nil), plants...)}
}

// Add appends a plant. Plants sharing a latin name are grouped on read.
func (s *Source) Add(p Plant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plants = append(s.plants, p)
}

// Close implements source.Reader.
func (s *Source) Close() error { return nil }

// ReadPlants implements source.Reader.
func (s *Source) ReadPlants(ctx context.Context) ([]source.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type group struct {
		row  source.Row
		uses []Use
		care []string
	}
	var order []string
	groups := make(map[string]*group)

	for _, p := range s.plants {
		if p.LatinName == "" {
			continue
		}
		g, ok := groups[p.LatinName]
		if !ok {
			g = &group{row: p.Row}
			groups[p.LatinName] = g
			order = append(order, p.LatinName)
		}
		g.uses = append(g.uses, p.Uses...)
		g.care = append(g.care, p.Care...)
	}

	var rows []source.Row
	for _, name := range order {
		g := groups[name]
		plantLevel := source.Qualifies(g.row, nil)

		var names []string
		for _, u := range g.uses {
			if plantLevel || u.Category == source.MedicinalCategory {
				names = append(names, u.Name)
			}
		}
		if !plantLevel && len(names) == 0 {
			continue
		}
		row := g.row
		row.UseNames = joinDistinct(names)
		row.CareRequirements = joinDistinct(g.care)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MedicinalRating != rows[j].MedicinalRating {
			return rows[i].MedicinalRating > rows[j].MedicinalRating
		}
		return rows[i].CommonName < rows[j].CommonName
	})
	return rows, nil
}

func joinDistinct(values []string) string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return strings.Join(out, ",")
}
