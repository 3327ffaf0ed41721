package geo

import (
	"fmt"
	"strings"
)

type MatchKind string

const (
	// MatchExact: the input matched a whitelist commune (case/whitespace
	// insensitive); Commune holds the canonical spelling.
	MatchExact MatchKind = "EXACT"
	// MatchSuggested: no exact match, but a close one was found. The caller
	// should surface the correction to the operator.
	MatchSuggested MatchKind = "SUGGESTED"
	// MatchDefault: the input matched nothing; the wilaya seat was
	// substituted and the original input discarded.
	MatchDefault MatchKind = "DEFAULT"
)

// Result always carries a commune taken verbatim from the whitelist. The
// carrier rejects the whole shipment on any unknown commune string, so
// unvalidated text must never pass through.
type Result struct {
	WilayaID   int
	WilayaName string
	Commune    string
	Kind       MatchKind
	Warnings   []string
}

const maxSuggestDistance = 2

// Validate resolves a free-text locality against the wilaya's commune
// whitelist. It never fails: out-of-range wilaya ids fall back to the
// capital region and unknown localities fall back to the wilaya seat, each
// with a warning.
func (d *Dataset) Validate(wilayaID int, locality string) Result {
	var warnings []string

	w, ok := d.byID[wilayaID]
	if !ok {
		warnings = append(warnings, fmt.Sprintf("wilaya id %d is not supported, substituted %d", wilayaID, d.fallbackID))
		w = d.byID[d.fallbackID]
	}

	in := normalize(locality)
	if in != "" {
		for _, c := range w.Communes {
			if normalize(c) == in {
				return Result{WilayaID: w.ID, WilayaName: w.Name, Commune: c, Kind: MatchExact, Warnings: warnings}
			}
		}
		if best, found := w.closestCommune(in); found {
			warnings = append(warnings, fmt.Sprintf("commune %q corrected to %q", locality, best))
			return Result{WilayaID: w.ID, WilayaName: w.Name, Commune: best, Kind: MatchSuggested, Warnings: warnings}
		}
	}

	warnings = append(warnings, fmt.Sprintf("commune %q not recognized, defaulted to %q", locality, w.DefaultCommune()))
	return Result{WilayaID: w.ID, WilayaName: w.Name, Commune: w.DefaultCommune(), Kind: MatchDefault, Warnings: warnings}
}

// closestCommune looks for a substring containment in either direction,
// then for the whitelist entry within the edit-distance bound. Ties go to
// the smaller distance, then to whitelist order.
func (w *Wilaya) closestCommune(normalizedInput string) (string, bool) {
	for _, c := range w.Communes {
		nc := normalize(c)
		if contains(nc, normalizedInput) || contains(normalizedInput, nc) {
			return c, true
		}
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range w.Communes {
		if dist := levenshtein(normalize(c), normalizedInput, maxSuggestDistance); dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best, best != ""
}

func contains(haystack, needle string) bool {
	return needle != "" && len(haystack) > len(needle) && strings.Contains(haystack, needle)
}

// levenshtein computes edit distance between a and b, giving up early with
// max+1 once the bound is exceeded.
func levenshtein(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > max {
		return max + 1
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, cur = cur, prev
	}
	if prev[len(rb)] > max {
		return max + 1
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
