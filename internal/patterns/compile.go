// ABOUTME: One-time compilation of a Rule into a form the engine walks repeatedly
// ABOUTME: Structural validation happens here; document-dependent evaluation happens in internal/engine

package patterns

// Compiled is a category's Rule after structural validation, shaped
// after the teacher's extractor-registry idiom
// (internal/extractors/custom/extractor_interface.go's ExtractorRegistry).
// It holds the Rule unchanged: no selector or transform chain is
// precomputed, and the engine walks Rule directly.
type Compiled struct {
	Category string
	Rule     *Rule
}

// Compile validates a Rule's structural invariants and returns a form
// ready for repeated evaluation. It does not resolve transform names:
// an unknown transform is reported only when evaluation reaches it, and
// that error fails the whole extraction, so no message is assembled
// from a partial result.
func Compile(category string, rule *Rule) (*Compiled, error) {
	for _, p := range rule.Preprocess {
		if p.Selector == "" {
			return nil, &MalformedPatternError{Reason: "prune directive selector must not be empty"}
		}
	}

	for key, group := range rule.Input {
		if group == nil || group.Fields == nil {
			return nil, &MalformedPatternError{Reason: "input group " + key + " must declare first or all"}
		}
	}

	for action, schema := range rule.Output {
		for _, field := range schema.Fields {
			if field.Source == nil {
				continue // context field, validated against context at assembly time
			}
			group, ok := rule.Input[*field.Source]
			if !ok {
				return nil, &MalformedPatternError{Reason: "action " + action + " field " + field.Key + " references unknown input " + *field.Source}
			}
			if _, ok := group.Fields[field.Key]; !ok {
				return nil, &MalformedPatternError{Reason: "action " + action + " field " + field.Key + " not declared under input " + *field.Source}
			}
			for _, rk := range field.RequiredKeys {
				if _, ok := group.Fields[rk]; !ok {
					return nil, &MalformedPatternError{Reason: "action " + action + " field " + field.Key + " requiredKeys entry " + rk + " not declared under input " + *field.Source}
				}
			}
		}
	}

	return &Compiled{Category: category, Rule: rule}, nil
}

// CompileSet compiles every category in a RuleSet, failing fast on the
// first malformed rule.
func CompileSet(rules RuleSet) (map[string]*Compiled, error) {
	out := make(map[string]*Compiled, len(rules))
	for category, rule := range rules {
		compiled, err := Compile(category, rule)
		if err != nil {
			return nil, err
		}
		out[category] = compiled
	}
	return out, nil
}
