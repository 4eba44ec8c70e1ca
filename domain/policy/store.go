package policy

import (
	"sort"
	"strings"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

// Store provides lookup over an immutable set of state frailty definitions.
type Store struct {
	byCode map[core.StateCode]Definition
	order  []core.StateCode
}

// NewStore builds a store from a definition slice, preserving catalog order.
func NewStore(defs []Definition) *Store {
	s := &Store{byCode: make(map[core.StateCode]Definition, len(defs))}
	for _, d := range defs {
		code := core.StateCode(d.StateCode.String())
		d.StateCode = code
		s.byCode[code] = d
		s.order = append(s.order, code)
	}
	return s
}

// NewCatalogStore builds a store over the static literature-derived catalog.
func NewCatalogStore() *Store {
	return NewStore(Catalog())
}

// Get returns the definition for a two-letter state code. An unknown code is
// a configuration error; the store never substitutes another state's
// definition.
func (s *Store) Get(code string) (Definition, error) {
	d, ok := s.byCode[core.StateCode(strings.ToUpper(strings.TrimSpace(code)))]
	if !ok {
		return Definition{}, errors.StateNotFound(code)
	}
	return d.Clone(), nil
}

// States returns all state codes in catalog order.
func (s *Store) States() []core.StateCode {
	out := make([]core.StateCode, len(s.order))
	copy(out, s.order)
	return out
}

// All returns every definition, deep-copied, in catalog order.
func (s *Store) All() []Definition {
	out := make([]Definition, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.byCode[code].Clone())
	}
	return out
}

// SortedByStringency returns definitions ordered from most restrictive to
// most inclusive.
func (s *Store) SortedByStringency() []Definition {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return Stringency(out[i]) < Stringency(out[j])
	})
	return out
}
