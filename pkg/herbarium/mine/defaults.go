package mine

// DefaultRules returns the built-in rule tables.
func DefaultRules() RuleSet {
	return RuleSet{
		Parts: []Rule{
			{Tag: "root", Patterns: []string{"root", "roots"}},
			{Tag: "leaf", Patterns: []string{"leaf", "leaves"}},
			{Tag: "flower", Patterns: []string{"flower", "flowers"}},
			{Tag: "flowering tops", Patterns: []string{"flowering tops"}},
			{Tag: "stem", Patterns: []string{"stem", "stems"}},
			{Tag: "bark", Patterns: []string{"bark"}},
			{Tag: "seed", Patterns: []string{"seed", "seeds"}},
			{Tag: "fruit", Patterns: []string{"fruit", "fruits"}},
			{Tag: "berry", Patterns: []string{"berry", "berries"}},
			{Tag: "rhizome", Patterns: []string{"rhizome"}},
			{Tag: "bulb", Patterns: []string{"bulb"}},
			{Tag: "tuber", Patterns: []string{"tuber"}},
			{Tag: "aerial parts", Patterns: []string{"aerial parts"}},
			{Tag: "whole plant", Patterns: []string{"whole plant"}},
			{Tag: "tops", Patterns: []string{"tops"}},
		},
		Actions: []Rule{
			{Tag: "anti-inflammatory", Patterns: []string{"anti-inflammatory", "antiinflammatory", "reduces inflammation"}},
			{Tag: "antimicrobial", Patterns: []string{"antimicrobial", "antibacterial", "antifungal", "antiseptic"}},
			{Tag: "antioxidant", Patterns: []string{"antioxidant", "free radical"}},
			{Tag: "digestive", Patterns: []string{"digestive", "stomach", "digestion", "carminative"}},
			{Tag: "sedative", Patterns: []string{"sedative", "calming", "relaxing", "nervine"}},
			{Tag: "diuretic", Patterns: []string{"diuretic", "urinary"}},
			{Tag: "expectorant", Patterns: []string{"expectorant", "cough", "respiratory"}},
			{Tag: "astringent", Patterns: []string{"astringent", "tannin"}},
			{Tag: "tonic", Patterns: []string{"tonic", "strengthening"}},
			{Tag: "antispasmodic", Patterns: []string{"antispasmodic", "spasm", "cramp"}},
		},
		Indications: keywordRules(
			"headache", "fever", "cold", "flu", "cough", "sore throat",
			"indigestion", "nausea", "diarrhea", "constipation",
			"anxiety", "insomnia", "stress", "depression",
			"arthritis", "rheumatism", "joint pain", "muscle pain",
			"wound", "cut", "burn", "skin condition", "eczema",
			"infection", "inflammation", "swelling",
		),
		Constituents: []ConstituentRule{
			{Tag: "tannins", Class: "astringent compounds", Patterns: []string{"tannins"}},
			{Tag: "alkaloids", Class: "nitrogen-containing compounds", Patterns: []string{"alkaloids"}},
			{Tag: "flavonoids", Class: "antioxidant compounds", Patterns: []string{"flavonoids"}},
			{Tag: "essential oils", Class: "volatile aromatic compounds", Patterns: []string{"essential oils"}},
			{Tag: "saponins", Class: "soap-like compounds", Patterns: []string{"saponins"}},
			{Tag: "glycosides", Class: "sugar-bound compounds", Patterns: []string{"glycosides"}},
			{Tag: "mucilage", Class: "soothing gel-like compounds", Patterns: []string{"mucilage"}},
			{Tag: "resins", Class: "protective compounds", Patterns: []string{"resins"}},
		},
		Preparations: keywordRules(
			"tea", "tincture", "decoction", "infusion", "poultice", "oil", "salve", "extract",
		),
		DefaultPart:        "aerial parts",
		DefaultPreparation: "infusion",
	}
}

// keywordRules builds rules whose only trigger is the tag itself.
func keywordRules(keywords ...string) []Rule {
	rules := make([]Rule, len(keywords))
	for i, kw := range keywords {
		rules[i] = Rule{Tag: kw, Patterns: []string{kw}}
	}
	return rules
}
