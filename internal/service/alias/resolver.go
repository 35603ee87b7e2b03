// Package alias maps free-text search terms onto canonical detected-object names.
package alias

import (
	"fmt"
	"strings"
)

// Entry is one canonical name with its aliases, in configuration order. The
// first alias is the preferred display form.
type Entry struct {
	Canonical string
	Aliases   []string
}

// Tier tells which matching stage produced a Resolution.
type Tier int

const (
	TierExact Tier = iota + 1
	TierSubstring
	TierLiteral
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierLiteral:
		return "literal"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Resolution is the outcome of resolving one query.
type Resolution struct {
	Query string   // normalized query
	Names []string // canonical candidates, never empty
	Tier  Tier
}

// AliasMatched reports whether the names came from the alias table rather than
// the literal query.
func (r Resolution) AliasMatched() bool {
	return r.Tier == TierExact || r.Tier == TierSubstring
}

// entry holds the normalized forms used for matching next to the original
// canonical name and display alias.
type entry struct {
	canonical string
	key       string
	display   string
	aliases   []string
}

// Resolver is read-only after construction and safe for concurrent use.
type Resolver struct {
	entries []entry
	byName  map[string]int
}

// NewResolver builds a resolver over entries. A canonical name repeated later
// in the list replaces the earlier aliases but keeps the earlier position, the
// way a JSON object with a duplicate key decodes.
func NewResolver(entries []Entry) *Resolver {
	r := &Resolver{byName: make(map[string]int, len(entries))}
	for _, e := range entries {
		ne := entry{canonical: e.Canonical, key: Normalize(e.Canonical)}
		if len(e.Aliases) > 0 {
			ne.display = e.Aliases[0]
		}
		for _, a := range e.Aliases {
			ne.aliases = append(ne.aliases, Normalize(a))
		}
		if i, dup := r.byName[e.Canonical]; dup {
			r.entries[i] = ne
			continue
		}
		r.byName[e.Canonical] = len(r.entries)
		r.entries = append(r.entries, ne)
	}
	return r
}

// Normalize lower-cases and trims a query or alias.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve maps query to canonical names. Matching stops at the first tier with
// any result: exact canonical or alias equality, then query as a substring of an
// alias, then the query itself as the only candidate.
func (r *Resolver) Resolve(query string) Resolution {
	q := Normalize(query)

	if names := r.exact(q); len(names) > 0 {
		return Resolution{Query: q, Names: names, Tier: TierExact}
	}
	if names := r.substring(q); len(names) > 0 {
		return Resolution{Query: q, Names: names, Tier: TierSubstring}
	}
	return Resolution{Query: q, Names: []string{q}, Tier: TierLiteral}
}

func (r *Resolver) exact(q string) []string {
	var names []string
	for _, e := range r.entries {
		if q == e.key || contains(e.aliases, q) {
			names = append(names, e.canonical)
		}
	}
	return names
}

func (r *Resolver) substring(q string) []string {
	if q == "" {
		return nil
	}
	var names []string
	for _, e := range r.entries {
		for _, a := range e.aliases {
			if strings.Contains(a, q) {
				names = append(names, e.canonical)
				break
			}
		}
	}
	return names
}

// DisplayName renders a canonical name for users: "<first alias> (<canonical>)"
// when the canonical has aliases, the canonical itself otherwise.
func (r *Resolver) DisplayName(canonical string) string {
	local, ok := r.LocalName(canonical)
	if !ok {
		return canonical
	}
	return fmt.Sprintf("%s (%s)", local, canonical)
}

// LocalName returns the first alias of canonical, if any.
func (r *Resolver) LocalName(canonical string) (string, bool) {
	i, ok := r.byName[canonical]
	if !ok || r.entries[i].display == "" {
		return "", false
	}
	return r.entries[i].display, true
}

// Len returns the number of canonical names.
func (r *Resolver) Len() int {
	return len(r.entries)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
