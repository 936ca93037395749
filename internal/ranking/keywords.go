package ranking

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/divergeconnect/connect/internal/domain"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Table identifies which tag table a keyword maps into.
type Table string

// Keyword tables.
const (
	TableCategory Table = "category"
	TableVertical Table = "vertical"
)

// Keyword maps a domain phrase to tag-name fragments.
type Keyword struct {
	Keyword   string   `yaml:"keyword"`
	Fragments []string `yaml:"fragments"`
	AppliesTo []Table  `yaml:"applies_to,omitempty"`
}

// Applies reports whether the keyword contributes to table t.
func (k Keyword) Applies(t Table) bool {
	if len(k.AppliesTo) == 0 {
		return true
	}
	for _, a := range k.AppliesTo {
		if a == t {
			return true
		}
	}
	return false
}

// KeywordTable is an ordered keyword mapping.
type KeywordTable struct {
	entries []Keyword
}

type keywordFile struct {
	Keywords []Keyword `yaml:"keywords"`
}

// ParseKeywords decodes and validates a keyword table document.
// Keywords and fragments must be non-empty and lower-case.
func ParseKeywords(data []byte) (KeywordTable, error) {
	var f keywordFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return KeywordTable{}, fmt.Errorf("parse keyword table: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Keywords))
	for i, k := range f.Keywords {
		record := fmt.Sprintf("keyword[%d]", i)
		if k.Keyword == "" || k.Keyword != strings.ToLower(k.Keyword) {
			return KeywordTable{}, domain.NewCatalogError(record, "keyword", k.Keyword)
		}
		if _, dup := seen[k.Keyword]; dup {
			return KeywordTable{}, domain.NewCatalogError(record, "duplicate keyword", k.Keyword)
		}
		seen[k.Keyword] = struct{}{}
		if len(k.Fragments) == 0 {
			return KeywordTable{}, domain.NewCatalogError(record, "fragments", k.Keyword)
		}
		for _, frag := range k.Fragments {
			if frag == "" || frag != strings.ToLower(frag) {
				return KeywordTable{}, domain.NewCatalogError(record, "fragment", frag)
			}
		}
		for _, t := range k.AppliesTo {
			if t != TableCategory && t != TableVertical {
				return KeywordTable{}, domain.NewCatalogError(record, "applies_to", string(t))
			}
		}
	}
	return KeywordTable{entries: f.Keywords}, nil
}

var (
	defaultTableOnce sync.Once
	defaultTable     KeywordTable
)

// DefaultKeywords returns the bundled keyword table.
// Panics if the embedded document is invalid.
func DefaultKeywords() KeywordTable {
	defaultTableOnce.Do(func() {
		t, err := ParseKeywords(defaultKeywordsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded keyword table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Entries returns a copy of the table entries in document order.
func (t KeywordTable) Entries() []Keyword {
	out := make([]Keyword, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t KeywordTable) Len() int { return len(t.entries) }

// Vocabulary returns every keyword in the table.
func (t KeywordTable) Vocabulary() []string {
	out := make([]string, len(t.entries))
	for i, k := range t.entries {
		out[i] = k.Keyword
	}
	return out
}
