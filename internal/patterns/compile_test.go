package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const validRuleYAML = `
preprocess:
  - first: "div.ad"
  - all: "div.tracking-pixel"
input:
  .result:
    all:
      title:
        select: "h3"
        attr: textContent
      url:
        select: "a"
        attr: href
output:
  result-shown:
    fields:
      - key: q
      - key: title
        source: .result
      - key: url
        source: .result
`

func TestCompileValidRule(t *testing.T) {
	var rule Rule
	require.NoError(t, yaml.Unmarshal([]byte(validRuleYAML), &rule))

	compiled, err := Compile("web-search-results", &rule)
	require.NoError(t, err)
	assert.Equal(t, "web-search-results", compiled.Category)
	assert.Equal(t, []string{"result-shown"}, compiled.Rule.OutputOrder())
}

func TestCompileRejectsUnknownInputSource(t *testing.T) {
	rule := &Rule{
		Input: map[string]*InputGroup{},
		Output: map[string]*OutputSchema{
			"action": {
				Fields: []OutputField{
					{Key: "title", Source: strPtr(".missing")},
				},
			},
		},
		outputOrder: []string{"action"},
	}

	_, err := Compile("category", rule)
	require.Error(t, err)
	var malformed *MalformedPatternError
	assert.ErrorAs(t, err, &malformed)
}

func TestCompileRejectsFieldNotDeclaredUnderInput(t *testing.T) {
	rule := &Rule{
		Input: map[string]*InputGroup{
			".result": {Kind: InputFirst, Fields: map[string]*SelectorDef{
				"title": {Single: &SingleSelector{Attr: "textContent"}},
			}},
		},
		Output: map[string]*OutputSchema{
			"action": {
				Fields: []OutputField{
					{Key: "missingField", Source: strPtr(".result")},
				},
			},
		},
		outputOrder: []string{"action"},
	}

	_, err := Compile("category", rule)
	require.Error(t, err)
}

func TestCompileRejectsEmptyPruneSelector(t *testing.T) {
	rule := &Rule{Preprocess: []PruneDirective{{Kind: PruneFirst, Selector: ""}}}
	_, err := Compile("category", rule)
	require.Error(t, err)
}

func TestPruneDirectiveRequiresExactlyOneKey(t *testing.T) {
	var p PruneDirective
	err := yaml.Unmarshal([]byte(`{}`), &p)
	require.Error(t, err)

	err = yaml.Unmarshal([]byte(`{first: "a", all: "b"}`), &p)
	require.Error(t, err)

	err = yaml.Unmarshal([]byte(`{first: "a"}`), &p)
	require.NoError(t, err)
	assert.Equal(t, PruneFirst, p.Kind)
	assert.Equal(t, "a", p.Selector)
}

func TestTransformStepRequiresNonEmptyList(t *testing.T) {
	var s TransformStep
	require.Error(t, yaml.Unmarshal([]byte(`[]`), &s))

	require.NoError(t, yaml.Unmarshal([]byte(`[trim]`), &s))
	assert.Equal(t, "trim", s.Name)
	assert.Empty(t, s.Args)

	require.NoError(t, yaml.Unmarshal([]byte(`[truncate, "140"]`), &s))
	assert.Equal(t, "truncate", s.Name)
	assert.Equal(t, []string{"140"}, s.Args)
}

func TestSelectorDefFirstMatch(t *testing.T) {
	var d SelectorDef
	require.NoError(t, yaml.Unmarshal([]byte(`
firstMatch:
  - select: "h3"
    attr: textContent
  - select: "h2"
    attr: textContent
`), &d))
	require.Len(t, d.FirstMatch, 2)
	assert.Nil(t, d.Single)
}

func TestOutputOrderPreservesYAMLOrder(t *testing.T) {
	var rule Rule
	require.NoError(t, yaml.Unmarshal([]byte(`
output:
  zeta:
    fields: [{key: q}]
  alpha:
    fields: [{key: q}]
  mu:
    fields: [{key: q}]
`), &rule))

	assert.Equal(t, []string{"zeta", "alpha", "mu"}, rule.OutputOrder())
}

func strPtr(s string) *string { return &s }
