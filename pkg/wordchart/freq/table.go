package freq

import "sort"

// Entry is one (token, count) pair.
type Entry struct {
	Token string
	Count int
}

// Table maps tokens to occurrence counts. It remembers the order in which
// tokens were first seen so that ranking ties break deterministically.
// A Table is immutable once built; the zero value is an empty table.
type Table struct {
	counts map[string]int
	order  []string
}

// Count tallies exact-match occurrences of every token. Tokens are neither
// case-folded nor otherwise normalized. Empty strings are not tokens.
func Count(tokens []string) Table {
	t := Table{counts: make(map[string]int)}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, seen := t.counts[tok]; !seen {
			t.order = append(t.order, tok)
		}
		t.counts[tok]++
	}
	return t
}

// FromEntries builds a table from pairs in the given order. Later duplicates
// add to the earlier entry; non-positive counts are skipped.
func FromEntries(entries []Entry) Table {
	t := Table{counts: make(map[string]int, len(entries))}
	for _, e := range entries {
		if e.Token == "" || e.Count <= 0 {
			continue
		}
		if _, seen := t.counts[e.Token]; !seen {
			t.order = append(t.order, e.Token)
		}
		t.counts[e.Token] += e.Count
	}
	return t
}

// Len returns the number of distinct tokens.
func (t Table) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Get returns the count for token.
func (t Table) Get(token string) (int, bool) {
	c, ok := t.counts[token]
	return c, ok
}

// Entries returns all pairs in first-seen order.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, tok := range t.order {
		out[i] = Entry{Token: tok, Count: t.counts[tok]}
	}
	return out
}

// Map returns a copy of the counts.
func (t Table) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for tok, c := range t.counts {
		out[tok] = c
	}
	return out
}

// Filter keeps entries whose count is at least minFreq. First-seen order is preserved.
func (t Table) Filter(minFreq int) Table {
	out := Table{counts: make(map[string]int)}
	for _, tok := range t.order {
		if c := t.counts[tok]; c >= minFreq {
			out.order = append(out.order, tok)
			out.counts[tok] = c
		}
	}
	return out
}

// Ranked returns every entry ordered by descending count. Equal counts keep
// first-seen order.
func (t Table) Ranked() []Entry {
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// TopN returns the first min(n, Len()) entries of Ranked. n <= 0 yields nothing.
func (t Table) TopN(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	ranked := t.Ranked()
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
