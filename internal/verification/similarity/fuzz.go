// internal/verification/similarity/fuzz.go
package similarity

import (
	"sort"
	"strings"
)

// Ratio is the normalized Indel similarity of a and b on a 0-100 scale:
// 2*LCS / (len(a)+len(b)). Two empty strings are identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(ra, rb)) / float64(total)
}

// TokenSortRatio compares a and b after sorting their whitespace tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the token intersection against each side's
// remainder and returns the best of the three pairings. Subsets score 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	base := sortedJoin(sect)
	withA := joinNonEmpty(base, sortedJoin(onlyA))
	withB := joinNonEmpty(base, sortedJoin(onlyB))

	best := Ratio(withA, withB)
	if base == "" {
		return best
	}
	if r := Ratio(base, withA); r > best {
		best = r
	}
	if r := Ratio(base, withB); r > best {
		best = r
	}
	return best
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
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

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func sortedJoin(tokens []string) string {
	out := append([]string(nil), tokens...)
	sort.Strings(out)
	return strings.Join(out, " ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
