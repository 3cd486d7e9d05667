package mine

import "github.com/cognicore/herbarium/pkg/herbarium/catalog"

// Narrative holds the free-text fields of one plant that the miner reads.
type Narrative struct {
	MedicinalUses string
	EdibleUses    string
}

// Attributes are the tag lists mined from one plant's narrative.
type Attributes struct {
	PartsUsed    []string
	Actions      []string
	Indications  []string
	Constituents []catalog.Constituent
	Preparations []string
}

// Miner runs the five classifiers over a narrative:
// text → cleaning → rule-table matching → defaults.
type Miner struct {
	parts        *Table
	actions      *Table
	indications  *Table
	constituents *constituentTable
	preparations *Table

	defaultPart        string
	defaultPreparation string
}

// New creates a miner from a rule set.
func New(rs RuleSet) *Miner {
	return &Miner{
		parts:              NewTable(rs.Parts),
		actions:            NewTable(rs.Actions),
		indications:        NewTable(rs.Indications),
		constituents:       newConstituentTable(rs.Constituents),
		preparations:       NewTable(rs.Preparations),
		defaultPart:        rs.DefaultPart,
		defaultPreparation: rs.DefaultPreparation,
	}
}

// NewDefault creates a miner with the built-in rule tables.
func NewDefault() *Miner {
	return New(DefaultRules())
}

// Mine classifies one narrative.
func (m *Miner) Mine(n Narrative) Attributes {
	medicinal := CleanText(n.MedicinalUses)
	edible := CleanText(n.EdibleUses)

	return Attributes{
		PartsUsed:    m.Parts(medicinal + " " + edible),
		Actions:      m.Actions(medicinal),
		Indications:  m.Indications(medicinal),
		Constituents: m.Constituents(medicinal),
		Preparations: m.Preparations(medicinal),
	}
}

// Parts returns the plant parts named in text, or the default part when
// none is named.
func (m *Miner) Parts(text string) []string {
	return withDefault(m.parts.Match(text), m.defaultPart)
}

// Actions returns the medicinal actions whose synonyms occur in text.
func (m *Miner) Actions(text string) []string {
	return m.actions.Match(text)
}

// Indications returns the conditions named in text.
func (m *Miner) Indications(text string) []string {
	return m.indications.Match(text)
}

// Constituents returns a descriptor for every chemical class named in text.
func (m *Miner) Constituents(text string) []catalog.Constituent {
	return m.constituents.match(text)
}

// Preparations returns the preparation methods named in text, or the
// default preparation when none is named.
func (m *Miner) Preparations(text string) []string {
	return withDefault(m.preparations.Match(text), m.defaultPreparation)
}

// Rules returns the normalized rule set the miner runs with.
func (m *Miner) Rules() RuleSet {
	return RuleSet{
		Parts:              m.parts.Rules(),
		Actions:            m.actions.Rules(),
		Indications:        m.indications.Rules(),
		Constituents:       m.constituents.rules(),
		Preparations:       m.preparations.Rules(),
		DefaultPart:        m.defaultPart,
		DefaultPreparation: m.defaultPreparation,
	}
}

func withDefault(tags []string, fallback string) []string {
	if len(tags) == 0 && fallback != "" {
		return []string{fallback}
	}
	return tags
}
