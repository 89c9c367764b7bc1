package textsim

// EditDistance returns the Levenshtein distance between a and b, counted in
// runes so Bangla and Latin text are measured the same way.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// two rows are enough
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
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// SimilarityRatio maps edit distance onto [0,1]:
// (maxLen - distance) / maxLen. Two empty strings are identical (1.0).
func SimilarityRatio(a, b string) float64 {
	la, lb := runeLen(a), runeLen(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1.0
	}
	return float64(longest-EditDistance(a, b)) / float64(longest)
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
