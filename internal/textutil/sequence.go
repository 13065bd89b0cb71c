package textutil

// SequenceRatio computes a similarity measure over two strings as twice the
// number of matching characters divided by the total length, where matches
// are found by recursively locating the longest common substring on either
// side of a match. Returns a value in [0, 1].
func SequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(total)
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingRunes(a[:ai], b[:bi]) + matchingRunes(a[ai+size:], b[bi+size:])
}

// longestMatch finds the leftmost longest common substring of a and b,
// returning the start offsets in each plus the length.
func longestMatch(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0
	prev := make(map[int]int)
	for i := range a {
		current := make(map[int]int, len(prev)+1)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			length := prev[j-1] + 1
			current[j] = length
			if length > bestSize {
				bestA = i - length + 1
				bestB = j - length + 1
				bestSize = length
			}
		}
		prev = current
	}
	return bestA, bestB, bestSize
}
