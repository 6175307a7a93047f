package prefs

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is a pair found by Search, with its index in the full list so edits
// made on a filtered view land on the right row.
type Match struct {
	Index    int
	Pair     Pair
	Distance int
}

// Search filters pairs by a case-insensitive substring of person or company.
// Near misses within a small edit distance of any word are appended after
// the exact hits, closest first. An empty term returns every pair.
func Search(pairs []Pair, term string) []Match {
	term = strings.ToLower(strings.TrimSpace(term))
	var exact, near []Match
	for i, p := range pairs {
		if term == "" || contains(p, term) {
			exact = append(exact, Match{Index: i, Pair: p})
			continue
		}
		if d := closest(p, term); d <= tolerance(term) {
			near = append(near, Match{Index: i, Pair: p, Distance: d})
		}
	}
	sort.SliceStable(near, func(a, b int) bool { return near[a].Distance < near[b].Distance })
	return append(exact, near...)
}

func contains(p Pair, term string) bool {
	return strings.Contains(strings.ToLower(p.Person), term) ||
		strings.Contains(strings.ToLower(p.Company), term)
}

func tolerance(term string) int {
	n := len([]rune(term)) / 4
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}

// closest is the smallest edit distance from term to either full field or
// any word in them.
func closest(p Pair, term string) int {
	best := -1
	for _, field := range []string{p.Person, p.Company} {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		candidates := append([]string{field}, strings.Fields(field)...)
		for _, c := range candidates {
			d := levenshtein.ComputeDistance(term, c)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	if best < 0 {
		return len(term) + 1
	}
	return best
}
