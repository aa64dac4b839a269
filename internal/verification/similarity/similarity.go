// internal/verification/similarity/similarity.go
package similarity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"field-verification/internal/verification/normalize"
)

// ErrUnsupportedValue is returned for field values that are neither scalar
// nor nil (nested objects, arrays).
var ErrUnsupportedValue = errors.New("UNSUPPORTED_FIELD_VALUE")

var honorifics = map[string]struct{}{"mr": {}, "mrs": {}, "ms": {}}

// Stringify renders a scalar field value as text.
func Stringify(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func stringPair(a, b interface{}) (string, string, error) {
	sa, err := Stringify(a)
	if err != nil {
		return "", "", err
	}
	sb, err := Stringify(b)
	if err != nil {
		return "", "", err
	}
	return sa, sb, nil
}

// Text is a tolerant token-set similarity for names, addresses and vendors.
func Text(a, b interface{}) (float64, error) {
	sa, sb, err := stringPair(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := normalize.Text(sa), normalize.Text(sb)
	if na == "" || nb == "" {
		return 0, nil
	}
	return TokenSetRatio(na, nb) / 100, nil
}

// Phone is 1 when both sides normalize to the same ten digits, else 0.
func Phone(a, b interface{}) (float64, error) {
	sa, sb, err := stringPair(a, b)
	if err != nil {
		return 0, err
	}
	pa, pb := normalize.Phone(sa), normalize.Phone(sb)
	if pa == "" || pb == "" || pa != pb {
		return 0, nil
	}
	return 1, nil
}

// Amount accepts differences up to max(1, 1%) and fades linearly to zero at
// a 20% difference.
func Amount(a, b interface{}) (float64, error) {
	if _, _, err := stringPair(a, b); err != nil {
		return 0, err
	}
	x, okA := normalize.Money(a)
	y, okB := normalize.Money(b)
	if !okA || !okB || x <= 0 || y <= 0 {
		return 0, nil
	}

	hi := math.Max(x, y)
	diff := math.Abs(x - y)
	if diff <= math.Max(1, 0.01*hi) {
		return 1, nil
	}
	return math.Max(0, 1-diff/(0.2*hi)), nil
}

// Item caps the token-sort ratio by how much of the reference item the
// observed text covers, so a bare brand never scores as a full model name.
func Item(a, b interface{}) (float64, error) {
	sa, sb, err := stringPair(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := normalize.Text(sa), normalize.Text(sb)
	if na == "" || nb == "" {
		return 0, nil
	}

	ref, obs := tokenSet(na), tokenSet(nb)
	shared := 0
	for tok := range ref {
		if _, ok := obs[tok]; ok {
			shared++
		}
	}
	coverage := float64(shared) / float64(len(ref))
	base := TokenSortRatio(na, nb) / 100
	return math.Min(base, math.Min(1, coverage+0.10)), nil
}

// Name aligns tokens greedily (exact, or a single-letter initial) and returns
// the better of the alignment F1 and the token-sort ratio.
func Name(a, b interface{}) (float64, error) {
	sa, sb, err := stringPair(a, b)
	if err != nil {
		return 0, err
	}
	ref, obs := nameTokens(sa), nameTokens(sb)
	if len(ref) == 0 || len(obs) == 0 {
		return 0, nil
	}

	matched := 0
	used := make([]bool, len(obs))
	for _, rt := range ref {
		for j, ot := range obs {
			if used[j] || !tokensMatch(rt, ot) {
				continue
			}
			used[j] = true
			matched++
			break
		}
	}

	precision := float64(matched) / float64(len(obs))
	recall := float64(matched) / float64(len(ref))
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	base := TokenSortRatio(strings.Join(ref, " "), strings.Join(obs, " ")) / 100
	return math.Max(f1, base), nil
}

func nameTokens(s string) []string {
	var out []string
	for _, tok := range normalize.Tokens(s) {
		if _, skip := honorifics[tok]; skip {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) == 1 && strings.HasPrefix(b, a) {
		return true
	}
	return len(b) == 1 && strings.HasPrefix(a, b)
}
