package keyword

import (
	"strings"
)

// maxSuggestDistance is the largest edit distance a suggestion may be from
// the typed term.
const maxSuggestDistance = 2

// minSuggestLength is the shortest term worth correcting.
const minSuggestLength = 3

// Suggest returns query with each unknown term replaced by the closest term
// in the index dictionary, or "" when every term is known or nothing close
// exists. Ties go to the more frequent term.
func (b *BleveIndex) Suggest(query string) (string, error) {
	dict, err := b.dictionary()
	if err != nil {
		return "", err
	}
	terms := tokenizeQuery(query)
	changed := false
	for i, term := range terms {
		if _, known := dict[term]; known || len([]rune(term)) < minSuggestLength {
			continue
		}
		if best := closestTerm(term, dict); best != "" {
			terms[i] = best
			changed = true
		}
	}
	if !changed {
		return "", nil
	}
	return strings.Join(terms, " "), nil
}

// dictionary maps every indexed term to its document frequency, summed
// across fields.
func (b *BleveIndex) dictionary() (map[string]uint64, error) {
	dict := make(map[string]uint64)
	for _, field := range textFields {
		fd, err := b.index.FieldDict(field)
		if err != nil {
			return nil, err
		}
		for {
			entry, err := fd.Next()
			if err != nil || entry == nil {
				break
			}
			dict[entry.Term] += entry.Count
		}
		_ = fd.Close()
	}
	return dict, nil
}

func closestTerm(term string, dict map[string]uint64) string {
	best, bestDist := "", maxSuggestDistance+1
	var bestFreq uint64
	for candidate, freq := range dict {
		d := levenshtein(term, candidate)
		if d > maxSuggestDistance {
			continue
		}
		if d < bestDist || (d == bestDist && (freq > bestFreq || (freq == bestFreq && candidate < best))) {
			best, bestDist, bestFreq = candidate, d, freq
		}
	}
	return best
}

// levenshtein is the edit distance between a and b, counted in runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
