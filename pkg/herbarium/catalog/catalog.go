package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Catalog is the ordered collection of herbs.
type Catalog struct {
	Herbs []*Herb
}

// New returns a catalog holding the given herbs.
func New(herbs ...*Herb) *Catalog {
	return &Catalog{Herbs: herbs}
}

// Len returns the number of herbs.
func (c *Catalog) Len() int {
	return len(c.Herbs)
}

// Append adds a herb at the end of the catalog.
func (c *Catalog) Append(h *Herb) {
	c.Herbs = append(c.Herbs, h)
}

// Decode reads a catalog from a JSON array. Only a document that is not a
// JSON array is an error: entries that do not fit the schema are kept
// verbatim (see Herb.Preserved) and null entries are dropped.
func Decode(r io.Reader) (*Catalog, error) {
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	out := make([]*Herb, 0, len(entries))
	for _, e := range entries {
		if bytes.Equal(bytes.TrimSpace(e), []byte("null")) {
			continue
		}
		h := &Herb{}
		if err := json.Unmarshal(e, h); err != nil {
			h = preserve(e)
		}
		out = append(out, h)
	}
	return &Catalog{Herbs: out}, nil
}

// Encode writes the catalog as an indented JSON array. Non-ASCII and HTML
// characters are written as-is.
func (c *Catalog) Encode(w io.Writer) error {
	herbs := c.Herbs
	if herbs == nil {
		herbs = []*Herb{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(herbs)
}

// Store loads and saves the catalog file.
type Store interface {
	Load(ctx context.Context) (*Catalog, error)
	Save(ctx context.Context, c *Catalog) error
}

// FileStore reads a catalog from one path and writes it to another. The
// paths may be the same.
type FileStore struct {
	Input  string
	Output string
	Log    *slog.Logger
}

// Load reads the input catalog. A missing or unparsable file yields an
// empty catalog and a warning; other read failures are returned.
func (s *FileStore) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Input == "" {
		s.logger().Warn("no existing catalog configured, starting with empty catalog")
		return New(), nil
	}

	f, err := os.Open(s.Input)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger().Warn("existing catalog not found, starting with empty catalog", "path", s.Input)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		s.logger().Warn("existing catalog is malformed, starting with empty catalog", "path", s.Input, "error", err)
		return New(), nil
	}
	for i, h := range c.Herbs {
		if h.Preserved() {
			s.logger().Warn("catalog entry does not match the herb schema, keeping it unchanged",
				"path", s.Input, "index", i, "id", h.ID, "latin_name", h.LatinName)
		}
	}
	return c, nil
}

// Save writes the catalog to the output path, replacing any previous file.
// The data is written to a temporary file in the same directory first and
// renamed into place.
func (s *FileStore) Save(ctx context.Context, c *Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Output == "" {
		return errors.New("save catalog: no output path")
	}

	dir := filepath.Dir(s.Output)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := c.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Output); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *FileStore) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// Duplicate is an identity shared by more than one herb.
type Duplicate struct {
	Value string
	Count int
}

// Report summarizes identity problems in a catalog.
type Report struct {
	Total         int
	UniqueIDs     int
	DuplicateIDs  []Duplicate
	DuplicateKeys []Duplicate
}

// OK reports whether every id and every merge key is unique.
func (r Report) OK() bool {
	return len(r.DuplicateIDs) == 0 && len(r.DuplicateKeys) == 0
}

// Verify checks that ids and merge keys are unique.
func (c *Catalog) Verify() Report {
	ids := make(map[string]int, len(c.Herbs))
	keys := make(map[string]int, len(c.Herbs))
	for _, h := range c.Herbs {
		ids[h.ID]++
		keys[h.Key()]++
	}
	return Report{
		Total:         len(c.Herbs),
		UniqueIDs:     len(ids),
		DuplicateIDs:  duplicates(ids),
		DuplicateKeys: duplicates(keys),
	}
}

func duplicates(counts map[string]int) []Duplicate {
	var out []Duplicate
	for v, n := range counts {
		if n > 1 {
			out = append(out, Duplicate{Value: v, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Stats are the summary figures reported after a run.
type Stats struct {
	Total           int
	Medicinal       int
	HighlyMedicinal int
}

// Summarize counts herbs by PFAF medicinal rating.
func (c *Catalog) Summarize() Stats {
	s := Stats{Total: len(c.Herbs)}
	for _, h := range c.Herbs {
		r := h.MedicinalRating()
		if r > 0 {
			s.Medicinal++
		}
		if r >= 3 {
			s.HighlyMedicinal++
		}
	}
	return s
}
