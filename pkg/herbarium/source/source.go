package source

import (
	"context"
	"strings"
)

// Reader produces the plant rows that qualify for extraction.
type Reader interface {
	ReadPlants(ctx context.Context) ([]Row, error)
	Close() error
}

// Row is one plant from the source database, with its use categories and
// care requirements collapsed into comma-joined strings. Columns that are
// NULL in the source are empty strings or zero. Height is kept as the
// source text since PFAF mixes numbers and free text in that column.
type Row struct {
	LatinName  string
	CommonName string
	Family     string

	MedicinalRating int
	EdibilityRating int
	OtherUsesRating int

	Habit                   string
	Height                  string
	Hardiness               string
	Growth                  string
	Soil                    string
	Shade                   string
	Moisture                string
	KnownHazards            string
	Habitats                string
	Range                   string
	Summary                 string
	PhysicalCharacteristics string
	Synonyms                string
	MedicinalUses           string
	EdibleUses              string
	OtherUses               string
	CultivationDetails      string
	Propagation             string

	UseNames         string
	CareRequirements string
}

// MedicinalCategory is the use category that qualifies a plant on its own.
const MedicinalCategory = "medicinal uses"

// TriggerWords qualify a plant whose summary or other-uses text contains
// any of them (case-insensitive substring).
var TriggerWords = []string{"medicin", "therap", "treat"}

// Qualifies reports whether a row satisfies the inclusion predicate. The
// SQL reader applies the same predicate in its query; Qualifies serves
// readers that cannot push it down.
func Qualifies(r Row, useCategories []string) bool {
	if r.MedicinalRating > 0 {
		return true
	}
	for _, c := range useCategories {
		if c == MedicinalCategory {
			return true
		}
	}
	if r.MedicinalUses != "" {
		return true
	}
	return containsTrigger(r.Summary) || containsTrigger(r.OtherUses)
}

func containsTrigger(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range TriggerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// SplitList splits a comma-joined aggregate into trimmed, non-empty items.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
