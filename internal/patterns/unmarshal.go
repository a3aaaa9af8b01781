// ABOUTME: Custom YAML decoding for Rule that preserves output-mapping insertion order
// ABOUTME: gopkg.in/yaml.v3 exposes mapping nodes' key order; map[string] does not, so we capture it here

package patterns

import (
	"gopkg.in/yaml.v3"
)

func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type ruleAlias struct {
		Preprocess []PruneDirective          `yaml:"preprocess,omitempty"`
		Input      map[string]*InputGroup    `yaml:"input,omitempty"`
		Output     map[string]*OutputSchema  `yaml:"output,omitempty"`
	}
	var raw ruleAlias
	if err := value.Decode(&raw); err != nil {
		return err
	}
	r.Preprocess = raw.Preprocess
	r.Input = raw.Input
	r.Output = raw.Output
	r.outputOrder = mappingKeyOrder(value, "output")
	return nil
}

// mappingKeyOrder walks a document mapping node to find the nested
// mapping under key and returns its keys in declaration order.
func mappingKeyOrder(node *yaml.Node, key string) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != key {
			continue
		}
		sub := node.Content[i+1]
		if sub.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(sub.Content)/2)
		for j := 0; j+1 < len(sub.Content); j += 2 {
			order = append(order, sub.Content[j].Value)
		}
		return order
	}
	return nil
}
