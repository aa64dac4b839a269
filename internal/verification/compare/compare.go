// internal/verification/compare/compare.go
package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"field-verification/internal/verification/similarity"
)

// FieldMap holds field name to scalar value (string, number or nil).
type FieldMap map[string]interface{}

// Verdict is the trust classification of a comparison.
type Verdict string

const (
	VerdictTrusted    Verdict = "trusted"
	VerdictSuspicious Verdict = "suspicious"
	VerdictLikelyFake Verdict = "likely_fake"
)

// VerdictPolicy decides how final scores map onto verdicts.
type VerdictPolicy string

const (
	// PolicyTwoTier never yields suspicious: a result is trusted or likely_fake.
	PolicyTwoTier VerdictPolicy = "two_tier"
	// PolicyThreeTier adds a suspicious band below the trusted threshold.
	PolicyThreeTier VerdictPolicy = "three_tier"
)

const maxReasons = 8

// FieldScore is the per-field outcome on a 0-100 scale.
type FieldScore struct {
	Score     float64     `json:"score"`
	Weight    int         `json:"weight"`
	Agreement interface{} `json:"agreement"`
	Extracted interface{} `json:"extracted"`
	Error     string      `json:"error,omitempty"`
}

// Result is the outcome of Compare.
type Result struct {
	DocType     DocType               `json:"docType"`
	FinalScore  float64               `json:"final_score"`
	Verdict     Verdict               `json:"verdict"`
	HardFail    bool                  `json:"hard_fail"`
	FieldScores map[string]FieldScore `json:"field_scores"`
	FieldOrder  []string              `json:"fieldOrder"`
	Reasons     []string              `json:"reasons"`
}

// Options configure a Comparator.
type Options struct {
	Policy              VerdictPolicy
	TrustedThreshold    float64
	SuspiciousThreshold float64
}

// DefaultOptions is the two-tier policy with a 60 point cut-off.
func DefaultOptions() Options {
	return Options{
		Policy:              PolicyTwoTier,
		TrustedThreshold:    80,
		SuspiciousThreshold: 60,
	}
}

// Comparator scores agreement values against extracted values. It holds no
// mutable state and is safe for concurrent use.
type Comparator struct {
	opts Options
}

func NewComparator(opts Options) *Comparator {
	def := DefaultOptions()
	if opts.Policy == "" {
		opts.Policy = def.Policy
	}
	if opts.TrustedThreshold <= 0 {
		opts.TrustedThreshold = def.TrustedThreshold
	}
	if opts.SuspiciousThreshold <= 0 {
		opts.SuspiciousThreshold = def.SuspiciousThreshold
	}
	return &Comparator{opts: opts}
}

var defaultComparator = NewComparator(DefaultOptions())

// Compare runs the default two-tier comparator.
func Compare(docType string, agreement, extracted FieldMap) Result {
	return defaultComparator.Compare(docType, agreement, extracted)
}

func (c *Comparator) Compare(docType string, agreement, extracted FieldMap) Result {
	dt := ParseDocType(docType)
	table := Weights(dt)

	res := Result{
		DocType:     dt,
		FieldScores: make(map[string]FieldScore, len(table)),
		FieldOrder:  make([]string, 0, len(table)),
		Reasons:     []string{},
	}

	totalWeight, weighted := 0, 0.0
	for _, fw := range table {
		a, b := agreement[fw.Field], extracted[fw.Field]
		res.FieldOrder = append(res.FieldOrder, fw.Field)

		if absent(a) {
			res.FieldScores[fw.Field] = FieldScore{Score: 100, Weight: 0, Agreement: a, Extracted: b}
			continue
		}

		s, hardFail, err := scoreField(dt, fw.Field, a, b)
		fs := FieldScore{Score: round2(s * 100), Weight: fw.Weight, Agreement: a, Extracted: b}
		if err != nil {
			fs.Score = 0
			fs.Error = err.Error()
		}
		if hardFail {
			res.HardFail = true
		}
		res.FieldScores[fw.Field] = fs

		totalWeight += fs.Weight
		weighted += fs.Score / 100 * float64(fs.Weight)
	}

	if totalWeight == 0 {
		res.FinalScore = 100
	} else {
		res.FinalScore = round2(weighted / float64(totalWeight) * 100)
	}
	res.Verdict = c.verdict(res.FinalScore, res.HardFail)

	for _, field := range res.FieldOrder {
		fs := res.FieldScores[field]
		if fs.Score < 60 && len(res.Reasons) < maxReasons {
			res.Reasons = append(res.Reasons, fmt.Sprintf("%s mismatch (%s%%)", field, formatScore(fs.Score)))
		}
	}

	return res
}

// scoreField dispatches on the field name and applies the hard-fail rule for
// that field. A similarity error never raises a hard fail.
func scoreField(dt DocType, field string, a, b interface{}) (float64, bool, error) {
	switch field {
	case "phone":
		s, err := similarity.Phone(a, b)
		if err != nil {
			return 0, false, err
		}
		return s, present(a) && present(b) && s == 0, nil

	case "amount":
		s, err := similarity.Amount(a, b)
		if err != nil {
			return 0, false, err
		}
		return s, a != nil && b != nil && s < 0.3, nil

	case "item":
		s, err := similarity.Item(a, b)
		if err != nil {
			return 0, false, err
		}
		return s, present(a) && present(b) && s < 0.4, nil

	case "name":
		s, err := similarity.Name(a, b)
		if err != nil {
			return 0, false, err
		}
		threshold := 0.4
		if dt.identityDoc() {
			threshold = 0.25
		}
		return s, present(a) && present(b) && s < threshold, nil

	default:
		s, err := similarity.Text(a, b)
		return s, false, err
	}
}

func (c *Comparator) verdict(score float64, hardFail bool) Verdict {
	if hardFail || score < c.opts.SuspiciousThreshold {
		return VerdictLikelyFake
	}
	if c.opts.Policy == PolicyThreeTier && score < c.opts.TrustedThreshold {
		return VerdictSuspicious
	}
	return VerdictTrusted
}

// absent is true for a missing agreement value: nil or a blank string.
func absent(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// present is true for non-nil, non-blank, non-zero values.
func present(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatScore always prints at least one decimal: 45 -> "45.0".
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
