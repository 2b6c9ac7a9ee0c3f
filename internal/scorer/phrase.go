package scorer

// PhraseMatches checks whether termPositions (one ordered position list
// per phrase term, in phrase order) admits a choice of one position per
// term such that the chosen positions are strictly increasing with a
// difference of exactly 1 between adjacent terms. A phrase with any term
// that has no positions at all never matches.
func PhraseMatches(termPositions [][]int) bool {
	if len(termPositions) == 0 {
		return false
	}
	for _, positions := range termPositions {
		if len(positions) == 0 {
			return false
		}
	}

	candidates := make(map[int]struct{}, len(termPositions[0]))
	for _, p := range termPositions[0] {
		candidates[p] = struct{}{}
	}

	for i := 1; i < len(termPositions); i++ {
		wanted := make(map[int]struct{}, len(termPositions[i]))
		for _, p := range termPositions[i] {
			wanted[p] = struct{}{}
		}

		next := make(map[int]struct{})
		for c := range candidates {
			if _, ok := wanted[c+1]; ok {
				next[c+1] = struct{}{}
			}
		}
		candidates = next
		if len(candidates) == 0 {
			return false
		}
	}

	return len(candidates) > 0
}
