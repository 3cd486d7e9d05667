package mine

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
)

// Ethanol strength ranges recommended for extraction.
const (
	EthanolLow  = "40-70%"
	EthanolHigh = "70-95%"
)

var (
	waterSoluble = map[string]bool{
		"tannins":  true,
		"mucilage": true,
		"saponins": true,
	}
	lowEthanol = map[string]bool{
		"tannins":    true,
		"flavonoids": true,
	}
)

// SolubilityOf returns the static solubility profile for a constituent
// class. Unlisted classes are alcohol-soluble only.
func SolubilityOf(constituent string) catalog.Solubility {
	key := strings.ToLower(constituent)
	s := catalog.Solubility{Water: waterSoluble[key], EthanolRange: EthanolHigh}
	if lowEthanol[key] {
		s.EthanolRange = EthanolLow
	}
	return s
}

type constituentTable struct {
	table   *Table
	classes map[string]string
	title   cases.Caser
}

func newConstituentTable(rules []ConstituentRule) *constituentTable {
	plain := make([]Rule, len(rules))
	classes := make(map[string]string, len(rules))
	for i, r := range rules {
		plain[i] = Rule{Tag: r.Tag, Patterns: r.Patterns}
		classes[r.Tag] = r.Class
	}
	return &constituentTable{
		table:   NewTable(plain),
		classes: classes,
		title:   cases.Title(language.English),
	}
}

func (c *constituentTable) match(text string) []catalog.Constituent {
	tags := c.table.Match(text)
	result := make([]catalog.Constituent, 0, len(tags))
	for _, tag := range tags {
		result = append(result, catalog.Constituent{
			Name:       c.title.String(tag),
			Class:      c.classes[tag],
			Solubility: SolubilityOf(tag),
			Notes:      "Found in " + tag + " analysis",
		})
	}
	return result
}

func (c *constituentTable) rules() []ConstituentRule {
	plain := c.table.Rules()
	out := make([]ConstituentRule, len(plain))
	for i, r := range plain {
		out[i] = ConstituentRule{Tag: r.Tag, Class: c.classes[r.Tag], Patterns: r.Patterns}
	}
	return out
}
