// ABOUTME: Pattern-set providers — the patterns.getRulesSnapshot() collaborator from spec.md §6
// ABOUTME: A consistent snapshot is read once per extraction; the core never re-reads mid-run

package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider returns a consistent RuleSet snapshot. Implementations may
// hold their own state (a file watcher, a remote config client, a plain
// in-memory map); the core only ever calls Snapshot once per extraction.
type Provider interface {
	Snapshot() (RuleSet, error)
}

// StaticProvider is the simplest Provider: a RuleSet fixed at
// construction time, useful for tests and for embedding a default
// pattern set in a binary.
type StaticProvider struct {
	rules RuleSet
}

func NewStaticProvider(rules RuleSet) *StaticProvider {
	return &StaticProvider{rules: rules}
}

func (p *StaticProvider) Snapshot() (RuleSet, error) {
	return p.rules, nil
}

// YAMLFileProvider loads one Rule per `<category>.yaml` file in a
// directory, following the teacher's config-from-disk idiom of reading
// structured data off the filesystem at startup (cmd/parser/main.go's
// custom-headers-as-JSON flag, generalized here to a whole directory of
// YAML pattern files since a single category per file keeps pattern
// authoring reviewable).
type YAMLFileProvider struct {
	dir string
}

func NewYAMLFileProvider(dir string) *YAMLFileProvider {
	return &YAMLFileProvider{dir: dir}
}

func (p *YAMLFileProvider) Snapshot() (RuleSet, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("doublefetch: reading pattern directory %s: %w", p.dir, err)
	}

	rules := make(RuleSet)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		category := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")

		data, err := os.ReadFile(filepath.Join(p.dir, name))
		if err != nil {
			return nil, fmt.Errorf("doublefetch: reading pattern file %s: %w", name, err)
		}

		var rule Rule
		if err := yaml.Unmarshal(data, &rule); err != nil {
			return nil, fmt.Errorf("doublefetch: parsing pattern file %s: %w", name, err)
		}
		rules[category] = &rule
	}

	return rules, nil
}
