package querygen

import (
	"fmt"

	"github.com/tenantsql/tenantsql/model"
)

// SortKey is one caller-supplied ordering term for a list query.
type SortKey struct {
	Field string
	Desc  bool
}

// ValidateSort checks requested sort keys against the model's fixed
// whitelist. Sorting on a non-whitelisted field, or in a direction a rule
// restricts, is rejected before any query text is built.
func ValidateSort(m *model.Model, keys []SortKey) error {
	for _, k := range keys {
		rule, ok := m.SortRuleFor(k.Field)
		if !ok {
			return fmt.Errorf("model %q does not allow sorting by %q", m.Name, k.Field)
		}
		switch rule.Direction {
		case model.DirAsc:
			if k.Desc {
				return fmt.Errorf("model %q only allows ascending order on %q", m.Name, k.Field)
			}
		case model.DirDesc:
			if !k.Desc {
				return fmt.Errorf("model %q only allows descending order on %q", m.Name, k.Field)
			}
		}
	}
	return nil
}

// defaultSort returns the ordering used when the caller supplies none: the
// first whitelisted rule, else the identifying fields ascending.
func defaultSort(m *model.Model) []SortKey {
	if len(m.Sort) > 0 {
		r := m.Sort[0]
		return []SortKey{{Field: r.Field, Desc: r.Direction == model.DirDesc}}
	}
	var keys []SortKey
	for _, idf := range IDFields(m) {
		keys = append(keys, SortKey{Field: idf.Field.Name})
	}
	return keys
}
