// internal/verification/normalize/money.go
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarkers = regexp.MustCompile(`(?i)(₹|\$|€|£|inr|rs\.?|/-)`)

// Money parses an amount that may carry thousands separators or a currency
// marker. ok is false when v is nil or not numeric.
func Money(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		return parseDecimal(n.String())
	case string:
		return parseDecimal(n)
	default:
		return 0, false
	}
}

func parseDecimal(s string) (float64, bool) {
	s = currencyMarkers.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
