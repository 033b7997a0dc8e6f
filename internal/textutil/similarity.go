package textutil

import (
	"sort"
	"strings"
)

// Ratio returns the normalized Indel similarity of a and b on a 0-100 scale:
// 200 * LCS(a, b) / (len(a) + len(b)), measured in runes. Empty input has no
// usable text and scores 0.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

// TokenSortRatio compares a and b after sorting their whitespace-separated
// tokens, so word order does not affect the score.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// PartialRatio returns the best Ratio between the shorter input and any
// window of the longer input with the same length. Windows that hang over
// either edge of the longer input are included. Inputs of equal length are
// aligned in both directions.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	best := bestWindow(short, long)
	if len(short) == len(long) && best < 100 {
		best = max(best, bestWindow(long, short))
	}
	return best
}

// bestWindow slides short across long, including partial overlaps at
// both edges.
func bestWindow(short, long []rune) float64 {
	m := len(short)
	var best float64
	for start := -(m - 1); start < len(long); start++ {
		lo := max(start, 0)
		hi := min(start+m, len(long))
		if score := ratioRunes(short, long[lo:hi]); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func ratioRunes(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 200 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// lcsLength computes the longest common subsequence length with two rolling
// rows sized to the shorter input.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
