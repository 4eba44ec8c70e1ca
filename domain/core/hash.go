package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Domain-specific hash types
type (
	CohortHash    Hash
	ParameterHash Hash
)

func NewCohortHash(data []byte) CohortHash       { return CohortHash(NewHash(data)) }
func NewParameterHash(data []byte) ParameterHash { return ParameterHash(NewHash(data)) }

func (h CohortHash) String() string    { return Hash(h).String() }
func (h ParameterHash) String() string { return Hash(h).String() }

func (h CohortHash) IsEmpty() bool    { return Hash(h).IsEmpty() }
func (h ParameterHash) IsEmpty() bool { return Hash(h).IsEmpty() }

// ComputeParameterHash fingerprints a set of named numeric parameter tables so
// a run manifest can prove which probability tables produced a result.
func ComputeParameterHash(tables map[string]map[string]float64) ParameterHash {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var data strings.Builder
	for _, name := range names {
		data.WriteString(name)
		table := tables[name]
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			data.WriteString(fmt.Sprintf("%s=%.6f;", k, table[k]))
		}
	}

	return NewParameterHash([]byte(data.String()))
}

// DeriveSeed folds a base seed with string labels into a child seed. Used to
// give each (state, race) simulation stream an independent, reproducible
// generator so parallel execution cannot reorder draws.
func DeriveSeed(base int64, labels ...string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", base)
	for _, label := range labels {
		h.Write([]byte{0})
		h.Write([]byte(label))
	}
	return int64(h.Sum64())
}
