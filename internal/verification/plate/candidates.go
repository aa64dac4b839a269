// internal/verification/plate/candidates.go
package plate

import (
	"regexp"
	"sort"
)

const (
	minPlateLen = 8
	maxPlateLen = 12
)

var plateGrammar = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{1,3}\d{1,4}$`)

// Valid reports whether plate matches STATE RTO SERIES NUMBER.
func Valid(plate string) bool {
	return plateGrammar.MatchString(plate)
}

// Candidate is a grammar-valid plate with its conversion cost.
type Candidate struct {
	Text string  `json:"text"`
	Cost float64 `json:"cost"`
}

type segmentKind int

const (
	letters segmentKind = iota
	digits
)

type variant struct {
	text string
	cost int
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

// convert coerces raw into an all-letter or all-digit segment. Each mapped
// character costs 1; a character with no mapping kills the segment.
func (m *ConfusionModel) convert(raw string, kind segmentKind) []variant {
	acc := []variant{{}}
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		var next []variant
		for _, v := range acc {
			switch {
			case kind == digits && isDigit(ch), kind == letters && isLetter(ch):
				next = append(next, variant{v.text + string(ch), v.cost})
			case kind == digits:
				for _, d := range m.digitFromLetter[ch] {
					next = append(next, variant{v.text + string(d), v.cost + 1})
				}
			default:
				for _, l := range m.letterFromDigit[ch] {
					next = append(next, variant{v.text + string(l), v.cost + 1})
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		acc = next
	}
	return dedupeVariants(acc)
}

func dedupeVariants(in []variant) []variant {
	best := make(map[string]int, len(in))
	order := make([]string, 0, len(in))
	for _, v := range in {
		c, ok := best[v.text]
		if !ok {
			order = append(order, v.text)
		}
		if !ok || v.cost < c {
			best[v.text] = v.cost
		}
	}
	out := make([]variant, len(order))
	for i, t := range order {
		out[i] = variant{t, best[t]}
	}
	return out
}

// stateVariants adds single A/N swaps, each costing 1.
func (m *ConfusionModel) stateVariants(st string) []variant {
	out := []variant{{st, 0}}
	for i := 0; i < len(st); i++ {
		for _, rep := range m.stateSwaps[st[i]] {
			b := []byte(st)
			b[i] = rep
			out = append(out, variant{string(b), 1})
		}
	}
	return dedupeVariants(out)
}

// Candidates enumerates every grammar-valid reading of an 8-12 character
// alphanumeric chunk, keeping the cheapest cost per plate. The result is
// sorted by cost; equal costs keep enumeration order.
func (m *ConfusionModel) Candidates(chunk string) []Candidate {
	if len(chunk) < minPlateLen || len(chunk) > maxPlateLen {
		return nil
	}

	costs := make(map[string]int)
	var order []string

	for rtoLen := 1; rtoLen <= 2; rtoLen++ {
		for seriesLen := 1; seriesLen <= 3; seriesLen++ {
			numLen := len(chunk) - (2 + rtoLen + seriesLen)
			if numLen < 1 || numLen > 4 {
				continue
			}

			rawState := chunk[:2]
			rawRTO := chunk[2 : 2+rtoLen]
			rawSeries := chunk[2+rtoLen : 2+rtoLen+seriesLen]
			rawNum := chunk[2+rtoLen+seriesLen:]

			stOpts := m.convert(rawState, letters)
			rtoOpts := m.convert(rawRTO, digits)
			serOpts := m.convert(rawSeries, letters)
			numOpts := m.convert(rawNum, digits)
			if len(stOpts) == 0 || len(rtoOpts) == 0 || len(serOpts) == 0 || len(numOpts) == 0 {
				continue
			}

			for _, st := range stOpts {
				for _, sv := range m.stateVariants(st.text) {
					if !m.IsStateCode(sv.text) {
						continue
					}
					for _, rto := range rtoOpts {
						for _, ser := range serOpts {
							for _, num := range numOpts {
								cand := sv.text + rto.text + ser.text + num.text
								if !Valid(cand) {
									continue
								}
								cost := st.cost + sv.cost + rto.cost + ser.cost + num.cost
								prev, seen := costs[cand]
								if !seen {
									order = append(order, cand)
								}
								if !seen || cost < prev {
									costs[cand] = cost
								}
							}
						}
					}
				}
			}
		}
	}

	out := make([]Candidate, len(order))
	for i, text := range order {
		out[i] = Candidate{Text: text, Cost: float64(costs[text])}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}
