// internal/verification/plate/confusion.go
package plate

import "sort"

// StateCodes are the two-letter prefixes a registration number may start with.
var StateCodes = []string{
	"AN", "AP", "AR", "AS", "BR", "CH", "CG", "DD", "DL", "DN", "GA", "GJ",
	"HP", "HR", "JH", "JK", "KA", "KL", "LA", "LD", "MH", "ML", "MN", "MP",
	"MZ", "NL", "OD", "PB", "PY", "RJ", "SK", "TN", "TR", "TS", "UK", "UP", "WB",
}

const (
	confusableCost   = 0.25
	substitutionCost = 1.0
	indelCost        = 1.0
)

type runePair [2]byte

// ConfusionModel describes which characters OCR tends to swap and how
// segments may be coerced between letters and digits. Build it once and
// share it; it is never mutated after construction.
type ConfusionModel struct {
	pairs           map[runePair]struct{}
	statePairs      map[runePair]struct{}
	digitFromLetter map[byte][]byte
	letterFromDigit map[byte][]byte
	stateSwaps      map[byte][]byte
	stateCodes      map[string]struct{}
}

// NewConfusionModel builds the default Indian-plate confusion model.
func NewConfusionModel() *ConfusionModel {
	m := &ConfusionModel{
		pairs:      make(map[runePair]struct{}),
		statePairs: make(map[runePair]struct{}),
		digitFromLetter: map[byte][]byte{
			'O': {'0'}, 'D': {'0'},
			'I': {'1'}, 'L': {'1'},
			'Z': {'2'},
			'S': {'5', '3'},
			'B': {'8'},
			'G': {'6'},
			'E': {'3'},
		},
		letterFromDigit: map[byte][]byte{
			'0': {'O', 'D'},
			'1': {'I', 'L'},
			'2': {'Z'},
			'3': {'B', 'E'},
			'5': {'S'},
			'6': {'G'},
			'8': {'B'},
		},
		stateSwaps: map[byte][]byte{'A': {'N'}, 'N': {'A'}},
		stateCodes: make(map[string]struct{}, len(StateCodes)),
	}

	for _, p := range []string{
		"O0", "OD", "0D",
		"I1", "IL", "1L",
		"Z2",
		"S5", "S3",
		"3B", "3E",
		"B8",
		"G6",
		"EB", "E8",
	} {
		m.pairs[runePair{p[0], p[1]}] = struct{}{}
		m.pairs[runePair{p[1], p[0]}] = struct{}{}
	}
	m.statePairs[runePair{'A', 'N'}] = struct{}{}
	m.statePairs[runePair{'N', 'A'}] = struct{}{}

	for _, code := range StateCodes {
		m.stateCodes[code] = struct{}{}
	}
	return m
}

// Confusable reports whether a and b are OCR-confusable. A and N only count
// inside the state code.
func (m *ConfusionModel) Confusable(a, b byte, statePos bool) bool {
	if _, ok := m.pairs[runePair{a, b}]; ok {
		return true
	}
	if statePos {
		_, ok := m.statePairs[runePair{a, b}]
		return ok
	}
	return false
}

// SubstitutionCost is 0 for equal characters, 0.25 for confusable ones and 1
// otherwise.
func (m *ConfusionModel) SubstitutionCost(a, b byte, statePos bool) float64 {
	switch {
	case a == b:
		return 0
	case m.Confusable(a, b, statePos):
		return confusableCost
	default:
		return substitutionCost
	}
}

// Distance is the weighted edit distance from observed to reference, with
// unit insertions and deletions. Positions 0 and 1 of reference are the
// state code.
func (m *ConfusionModel) Distance(observed, reference string) float64 {
	n, k := len(observed), len(reference)
	prev := make([]float64, k+1)
	cur := make([]float64, k+1)
	for j := 0; j <= k; j++ {
		prev[j] = float64(j) * indelCost
	}

	for i := 1; i <= n; i++ {
		cur[0] = float64(i) * indelCost
		for j := 1; j <= k; j++ {
			best := prev[j] + indelCost
			if ins := cur[j-1] + indelCost; ins < best {
				best = ins
			}
			if sub := prev[j-1] + m.SubstitutionCost(observed[i-1], reference[j-1], j-1 < 2); sub < best {
				best = sub
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	return prev[k]
}

// IsStateCode reports whether code is a known state prefix.
func (m *ConfusionModel) IsStateCode(code string) bool {
	_, ok := m.stateCodes[code]
	return ok
}

func sortedUnique(plates []string) []string {
	seen := make(map[string]struct{}, len(plates))
	out := make([]string, 0, len(plates))
	for _, p := range plates {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
