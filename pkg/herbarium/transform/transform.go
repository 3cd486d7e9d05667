package transform

import (
	"strings"

	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
	"github.com/cognicore/herbarium/pkg/herbarium/mine"
	"github.com/cognicore/herbarium/pkg/herbarium/source"
)

// Defaults for PFAF-derived herbs.
const (
	SourceTag      = "pfaf"
	SourceCitation = "PFAF - Plants for a Future"
	UnknownFamily  = "Unknown"
)

// Rating tags.
const (
	TagHighlyMedicinal = "highly medicinal"
	TagMedicinal       = "medicinal"
	TagEdible          = "edible"
)

// habitTags are checked in order; the first one found in the habit text is
// the only habit tag emitted.
var habitTags = []string{"tree", "shrub", "herb"}

// Transformer turns source rows into catalog herbs.
type Transformer struct {
	miner *mine.Miner
}

// New creates a transformer that mines narratives with m.
func New(m *mine.Miner) *Transformer {
	return &Transformer{miner: m}
}

// All mines and transforms every row, preserving order.
func (t *Transformer) All(rows []source.Row) []catalog.Herb {
	herbs := make([]catalog.Herb, 0, len(rows))
	for _, row := range rows {
		attrs := t.miner.Mine(mine.Narrative{
			MedicinalUses: row.MedicinalUses,
			EdibleUses:    row.EdibleUses,
		})
		herbs = append(herbs, Herb(row, attrs))
	}
	return herbs
}

// Herb maps one row and its mined attributes to a catalog herb.
func Herb(row source.Row, attrs mine.Attributes) catalog.Herb {
	commonName := row.CommonName
	if commonName == "" {
		commonName = row.LatinName
	}
	family := row.Family
	if family == "" {
		family = UnknownFamily
	}

	return catalog.Herb{
		ID:                     ID(row.LatinName),
		CommonName:             commonName,
		LatinName:              row.LatinName,
		Family:                 family,
		PartsUsed:              attrs.PartsUsed,
		MedicinalActions:       attrs.Actions,
		Indications:            attrs.Indications,
		FolkUses:               row.Summary,
		Constituents:           attrs.Constituents,
		Preparations:           attrs.Preparations,
		SolventRecommendations: []catalog.SolventRecommendation{},
		Safety:                 row.KnownHazards,
		Interactions:           []string{},
		Sources:                []string{SourceCitation},
		Tags:                   Tags(row),
		PFAF:                   Provenance(row),
	}
}

// ID derives the herb identifier from its latin name.
func ID(latinName string) string {
	return SourceTag + "_" + Slug(latinName)
}

// Slug lowercases s and joins its whitespace-separated words with
// underscores.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// Tags synthesizes the rating, edibility and habit tags of a row.
func Tags(row source.Row) []string {
	tags := []string{}
	switch {
	case row.MedicinalRating >= 3:
		tags = append(tags, TagHighlyMedicinal)
	case row.MedicinalRating >= 1:
		tags = append(tags, TagMedicinal)
	}
	if row.EdibilityRating > 0 {
		tags = append(tags, TagEdible)
	}

	habit := strings.ToLower(row.Habit)
	for _, h := range habitTags {
		if strings.Contains(habit, h) {
			tags = append(tags, h)
			break
		}
	}
	return tags
}

// Provenance copies the ratings and cultivation fields of a row.
func Provenance(row source.Row) *catalog.PFAFData {
	return &catalog.PFAFData{
		MedicinalRating:    row.MedicinalRating,
		EdibilityRating:    row.EdibilityRating,
		OtherUsesRating:    row.OtherUsesRating,
		Habit:              row.Habit,
		Height:             catalog.Height(row.Height),
		Hardiness:          row.Hardiness,
		Growth:             row.Growth,
		Soil:               row.Soil,
		Shade:              row.Shade,
		Moisture:           row.Moisture,
		Habitats:           row.Habitats,
		Range:              row.Range,
		CultivationDetails: row.CultivationDetails,
		Propagation:        row.Propagation,
		CareRequirements:   source.SplitList(row.CareRequirements),
	}
}
