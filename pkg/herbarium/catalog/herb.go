package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Herb is one entry of the herb catalog.
type Herb struct {
	ID                     string                  `json:"id"`
	CommonName             string                  `json:"common_name"`
	LatinName              string                  `json:"latin_name"`
	Family                 string                  `json:"family"`
	PartsUsed              []string                `json:"plant_parts_used"`
	MedicinalActions       []string                `json:"medicinal_actions"`
	Indications            []string                `json:"indications"`
	FolkUses               string                  `json:"folk_uses"`
	Constituents           []Constituent           `json:"constituents"`
	Preparations           []string                `json:"best_preparations"`
	SolventRecommendations []SolventRecommendation `json:"solvent_recommendations"`
	Dosage                 string                  `json:"dosage"`
	Safety                 string                  `json:"safety"`
	Interactions           []string                `json:"interactions"`
	Sources                []string                `json:"sources"`
	Tags                   []string                `json:"tags"`
	PFAF                   *PFAFData               `json:"pfaf_data,omitempty"`

	// Extra holds fields written by other tools (is_priority, is_featured,
	// ...). They are carried through load/save untouched.
	Extra map[string]json.RawMessage `json:"-"`

	// raw is set for entries that do not fit the schema. They are written
	// back verbatim and never enriched.
	raw json.RawMessage
}

// Constituent describes a chemical class found in a plant.
type Constituent struct {
	Name       string     `json:"name"`
	Class      string     `json:"class"`
	Solubility Solubility `json:"solubility"`
	Notes      string     `json:"notes"`
}

// Solubility is the extraction profile of a constituent.
type Solubility struct {
	Water        bool   `json:"water"`
	EthanolRange string `json:"ethanol_range"`
}

// SolventRecommendation is filled in by the solvent enrichment stage.
type SolventRecommendation struct {
	PreparationType string `json:"preparation_type"`
	EthanolPercent  string `json:"ethanol_percent"`
	Ratio           string `json:"ratio"`
	Notes           string `json:"notes"`
}

// PFAFData is the provenance block copied from the PFAF source row.
type PFAFData struct {
	MedicinalRating    int      `json:"medicinal_rating"`
	EdibilityRating    int      `json:"edibility_rating"`
	OtherUsesRating    int      `json:"other_uses_rating"`
	Habit              string   `json:"habit"`
	Height             Height   `json:"height"`
	Hardiness          string   `json:"hardiness"`
	Growth             string   `json:"growth"`
	Soil               string   `json:"soil"`
	Shade              string   `json:"shade"`
	Moisture           string   `json:"moisture"`
	Habitats           string   `json:"habitats"`
	Range              string   `json:"range"`
	CultivationDetails string   `json:"cultivation_details"`
	Propagation        string   `json:"propagation"`
	CareRequirements   []string `json:"care_requirements"`
}

// Height is a plant height as recorded by PFAF, which holds numbers and
// free text ("1.5 m") in the same column. Numeric text is written as a JSON
// number, other text as a string, and the empty height as null.
type Height string

// MarshalJSON implements json.Marshaler.
func (h Height) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(h))
	if s == "" {
		return []byte("null"), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return json.Marshal(f)
	}
	return json.Marshal(string(h))
}

// UnmarshalJSON accepts a number, a string or null.
func (h *Height) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*h = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = Height(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("height: %w", err)
		}
		*h = Height(n.String())
	}
	return nil
}

// Preserved reports whether the herb was loaded from an entry that does not
// fit the schema. Such entries are written back unchanged.
func (h *Herb) Preserved() bool {
	return h.raw != nil
}

// preserve wraps an entry that failed to decode. The id and latin name are
// recovered when they are strings so the entry still owns its merge key.
func preserve(data json.RawMessage) *Herb {
	var ident map[string]json.RawMessage
	_ = json.Unmarshal(data, &ident)
	h := &Herb{raw: append(json.RawMessage(nil), data...)}
	_ = json.Unmarshal(ident["id"], &h.ID)
	_ = json.Unmarshal(ident["latin_name"], &h.LatinName)
	return h
}

// Key returns the merge identity of the herb: its lowercased latin name.
func (h *Herb) Key() string {
	return Key(h.LatinName)
}

// Key returns the merge identity for a latin name.
func Key(latinName string) string {
	return strings.ToLower(latinName)
}

// MedicinalRating returns the PFAF medicinal rating, or 0 when the herb
// carries no provenance block.
func (h *Herb) MedicinalRating() int {
	if h.PFAF == nil {
		return 0
	}
	return h.PFAF.MedicinalRating
}

// herbFields is Herb without methods, so encoding/json uses the default
// struct codec.
type herbFields Herb

var knownFields = func() map[string]struct{} {
	keys := make(map[string]struct{})
	data, _ := json.Marshal(herbFields{PFAF: &PFAFData{}})
	var m map[string]json.RawMessage
	_ = json.Unmarshal(data, &m)
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys
}()

// UnmarshalJSON decodes the known schema and keeps every other field in Extra.
func (h *Herb) UnmarshalJSON(data []byte) error {
	var fields herbFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range knownFields {
		delete(all, k)
	}
	*h = Herb(fields)
	if len(all) > 0 {
		h.Extra = all
	} else {
		h.Extra = nil
	}
	return nil
}

// MarshalJSON encodes the schema fields in declaration order followed by
// the extra fields in key order. Nil lists are written as [].
func (h Herb) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	fields := herbFields(h)
	fields.normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if len(h.Extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(h.Extra))
	for k := range h.Extra {
		if _, known := knownFields[k]; !known {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out = out[:len(out)-1] // drop '}'
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, h.Extra[k]...)
	}
	return append(out, '}'), nil
}

func (f *herbFields) normalize() {
	f.PartsUsed = orEmpty(f.PartsUsed)
	f.MedicinalActions = orEmpty(f.MedicinalActions)
	f.Indications = orEmpty(f.Indications)
	f.Preparations = orEmpty(f.Preparations)
	f.Interactions = orEmpty(f.Interactions)
	f.Sources = orEmpty(f.Sources)
	f.Tags = orEmpty(f.Tags)
	if f.Constituents == nil {
		f.Constituents = []Constituent{}
	}
	if f.SolventRecommendations == nil {
		f.SolventRecommendations = []SolventRecommendation{}
	}
	if f.PFAF != nil && f.PFAF.CareRequirements == nil {
		p := *f.PFAF
		p.CareRequirements = []string{}
		f.PFAF = &p
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
