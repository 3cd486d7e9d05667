package mine

import "strings"

// Rule maps an output tag to the phrases that trigger it.
type Rule struct {
	Tag      string   `yaml:"tag"`
	Patterns []string `yaml:"patterns"`
}

// ConstituentRule is a Rule for a chemical class, carrying the
// human-readable class description emitted with every match.
type ConstituentRule struct {
	Tag      string   `yaml:"tag"`
	Class    string   `yaml:"class"`
	Patterns []string `yaml:"patterns"`
}

// RuleSet holds the five classifier tables and their fallback values.
// An empty default means the classifier may return an empty list.
type RuleSet struct {
	Parts              []Rule            `yaml:"parts"`
	Actions            []Rule            `yaml:"actions"`
	Indications        []Rule            `yaml:"indications"`
	Constituents       []ConstituentRule `yaml:"constituents"`
	Preparations       []Rule            `yaml:"preparations"`
	DefaultPart        string            `yaml:"default_part"`
	DefaultPreparation string            `yaml:"default_preparation"`
}

// Table matches lowercase text against an ordered list of rules.
type Table struct {
	rules []Rule
}

// NewTable creates a table, lowercasing every pattern. Rules without a tag
// or without patterns are skipped.
func NewTable(rules []Rule) *Table {
	t := &Table{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if r.Tag == "" || len(r.Patterns) == 0 {
			continue
		}
		normalized := make([]string, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				normalized = append(normalized, p)
			}
		}
		if len(normalized) == 0 {
			continue
		}
		t.rules = append(t.rules, Rule{Tag: r.Tag, Patterns: normalized})
	}
	return t
}

// Match returns the tags whose patterns occur as substrings of text.
// Tags are unique and appear in rule order.
func (t *Table) Match(text string) []string {
	result := []string{}
	if text == "" {
		return result
	}
	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(t.rules))

	for _, r := range t.rules {
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		for _, p := range r.Patterns {
			if strings.Contains(lower, p) {
				seen[r.Tag] = struct{}{}
				result = append(result, r.Tag)
				break
			}
		}
	}
	return result
}

// Rules returns a copy of the normalized rules.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{Tag: r.Tag, Patterns: append([]string(nil), r.Patterns...)}
	}
	return out
}

// Len returns the number of usable rules.
func (t *Table) Len() int {
	return len(t.rules)
}
