package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
	"github.com/cognicore/herbarium/pkg/herbarium/mine"
)

// RuleFile is the YAML layout of a rule-table override. Tables that are
// present replace the built-in table of the same name; absent tables keep
// the defaults. A default set to "" disables the fallback.
type RuleFile struct {
	Parts              []mine.Rule            `yaml:"parts,omitempty"`
	Actions            []mine.Rule            `yaml:"actions,omitempty"`
	Indications        []mine.Rule            `yaml:"indications,omitempty"`
	Constituents       []mine.ConstituentRule `yaml:"constituents,omitempty"`
	Preparations       []mine.Rule            `yaml:"preparations,omitempty"`
	DefaultPart        *string                `yaml:"default_part,omitempty"`
	DefaultPreparation *string                `yaml:"default_preparation,omitempty"`
}

// LoadRules reads a rule file and overlays it on the built-in tables.
// An empty path returns the built-in tables unchanged.
func LoadRules(path string) (mine.RuleSet, error) {
	rs := mine.DefaultRules()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mine.RuleSet{}, fmt.Errorf("read rules: %w", err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return mine.RuleSet{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := rf.validate(); err != nil {
		return mine.RuleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return rf.Apply(rs), nil
}

// Apply overlays the file onto rs and returns the result.
func (rf RuleFile) Apply(rs mine.RuleSet) mine.RuleSet {
	if len(rf.Parts) > 0 {
		rs.Parts = rf.Parts
	}
	if len(rf.Actions) > 0 {
		rs.Actions = rf.Actions
	}
	if len(rf.Indications) > 0 {
		rs.Indications = rf.Indications
	}
	if len(rf.Constituents) > 0 {
		rs.Constituents = rf.Constituents
	}
	if len(rf.Preparations) > 0 {
		rs.Preparations = rf.Preparations
	}
	if rf.DefaultPart != nil {
		rs.DefaultPart = *rf.DefaultPart
	}
	if rf.DefaultPreparation != nil {
		rs.DefaultPreparation = *rf.DefaultPreparation
	}
	return rs
}

func (rf RuleFile) validate() error {
	tables := []struct {
		name  string
		rules []mine.Rule
	}{
		{"parts", rf.Parts},
		{"actions", rf.Actions},
		{"indications", rf.Indications},
		{"preparations", rf.Preparations},
	}
	for _, tbl := range tables {
		for i, r := range tbl.rules {
			if err := checkRule(tbl.name, i, r.Tag, r.Patterns); err != nil {
				return err
			}
		}
	}
	for i, r := range rf.Constituents {
		if err := checkRule("constituents", i, r.Tag, r.Patterns); err != nil {
			return err
		}
	}
	return nil
}

func checkRule(table string, i int, tag string, patterns []string) error {
	if tag == "" {
		return fmt.Errorf("%w: %s[%d]: tag is required", internalerr.ErrInvalidConfig, table, i)
	}
	if len(patterns) == 0 {
		return fmt.Errorf("%w: %s[%d] %q: no patterns", internalerr.ErrInvalidConfig, table, i, tag)
	}
	return nil
}

// EncodeRules writes rs as a complete rule file.
func EncodeRules(w io.Writer, rs mine.RuleSet) error {
	rf := RuleFile{
		Parts:              rs.Parts,
		Actions:            rs.Actions,
		Indications:        rs.Indications,
		Constituents:       rs.Constituents,
		Preparations:       rs.Preparations,
		DefaultPart:        &rs.DefaultPart,
		DefaultPreparation: &rs.DefaultPreparation,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rf); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Close()
}
