// ABOUTME: Declarative pattern schema for the doublefetch extraction engine
// ABOUTME: Models the {first|all} and {select|firstMatch} dichotomies as validated sum types

package patterns

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleSet maps a category name to its extraction Rule, mirroring the
// custom-extractor registry keyed by domain in the teacher repo.
type RuleSet map[string]*Rule

// Rule is everything known about extracting messages from one category
// of page: what to prune before extraction, what to pull out of the
// document, and what messages to assemble from the pulled-out values.
type Rule struct {
	Preprocess []PruneDirective       `yaml:"preprocess,omitempty"`
	Input      map[string]*InputGroup `yaml:"input,omitempty"`
	Output     map[string]*OutputSchema `yaml:"output,omitempty"`

	// outputOrder preserves insertion order from the YAML mapping, since
	// Go maps don't, and spec.md §5 requires actions to emit in the
	// declared order of the `output` mapping.
	outputOrder []string
}

// OutputOrder returns action names in the order they appeared in the
// source pattern.
func (r *Rule) OutputOrder() []string {
	return r.outputOrder
}

// PruneKind distinguishes a prune directive that removes the first match
// of a selector from one that removes every match.
type PruneKind int

const (
	PruneFirst PruneKind = iota
	PruneAll
)

// PruneDirective is one entry of a Rule's preprocess list.
type PruneDirective struct {
	Kind     PruneKind
	Selector string
}

func (p *PruneDirective) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		First *string `yaml:"first"`
		All   *string `yaml:"all"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.First != nil && raw.All == nil:
		p.Kind = PruneFirst
		p.Selector = *raw.First
	case raw.All != nil && raw.First == nil:
		p.Kind = PruneAll
		p.Selector = *raw.All
	default:
		return &MalformedPatternError{Reason: "prune directive must set exactly one of first or all"}
	}
	return nil
}

// InputKind distinguishes an input group that matches a single root
// element from one that matches every root element.
type InputKind int

const (
	InputFirst InputKind = iota
	InputAll
)

// InputGroup is one entry of a Rule's input mapping: a selector key plus
// the field map to evaluate against whatever it matches.
type InputGroup struct {
	Kind   InputKind
	Fields map[string]*SelectorDef
}

func (g *InputGroup) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		First map[string]*SelectorDef `yaml:"first"`
		All   map[string]*SelectorDef `yaml:"all"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.First != nil && raw.All == nil:
		g.Kind = InputFirst
		g.Fields = raw.First
	case raw.All != nil && raw.First == nil:
		g.Kind = InputAll
		g.Fields = raw.All
	default:
		return &MalformedPatternError{Reason: "expected first or all"}
	}
	return nil
}

// TransformStep is a single `[name, ...args]` entry of a transform chain.
type TransformStep struct {
	Name string
	Args []string
}

func (s *TransformStep) UnmarshalYAML(value *yaml.Node) error {
	var raw []string
	if err := value.Decode(&raw); err != nil {
		return &MalformedPatternError{Reason: "transform step must be a list"}
	}
	if len(raw) == 0 {
		return &MalformedPatternError{Reason: "transform step must have a name"}
	}
	s.Name = raw[0]
	s.Args = raw[1:]
	return nil
}

// SingleSelector is the `{ select?, attr, transform? }` selector shape.
type SingleSelector struct {
	Select    *string         `yaml:"select,omitempty"`
	Attr      string          `yaml:"attr"`
	Transform []TransformStep `yaml:"transform,omitempty"`
}

// SelectorDef is a field rule: either a single selector or a first-match
// list of alternative single selectors.
type SelectorDef struct {
	FirstMatch []SingleSelector // non-nil iff this is a firstMatch rule
	Single     *SingleSelector  // non-nil iff this is a plain rule
}

func (d *SelectorDef) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		FirstMatch []SingleSelector `yaml:"firstMatch"`
		SingleSelector `yaml:",inline"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if len(raw.FirstMatch) > 0 {
		d.FirstMatch = raw.FirstMatch
		return nil
	}
	single := raw.SingleSelector
	d.Single = &single
	return nil
}

// OutputSchema is one entry of a Rule's output mapping: the fields that
// build an action's payload, plus the redundancy and dedup hints.
type OutputSchema struct {
	Fields          []OutputField `yaml:"fields"`
	OmitIfExistsAny []string      `yaml:"omitIfExistsAny,omitempty"`
	DeduplicateBy   *string       `yaml:"deduplicateBy,omitempty"`
}

// OutputField is one entry of an OutputSchema's fields list.
type OutputField struct {
	Key          string   `yaml:"key"`
	Source       *string  `yaml:"source,omitempty"`
	RequiredKeys []string `yaml:"requiredKeys,omitempty"`
	Optional     bool     `yaml:"optional,omitempty"`
}

// MalformedPatternError tags a pattern-shape violation as permanent, per
// spec.md §7: these are raised at evaluation time, never silently
// tolerated, and the caller should not retry.
type MalformedPatternError struct {
	Reason string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern: %s", e.Reason)
}

// Permanent marks this error for classification by callers that check
// for the Permanent() bool method.
func (e *MalformedPatternError) Permanent() bool { return true }
