// internal/verification/rccompare/rccompare.go
package rccompare

import (
	"math"

	"github.com/agnivade/levenshtein"

	"field-verification/internal/models"
	"field-verification/internal/verification/normalize"
)

type Outcome string

const (
	OutcomeMatch      Outcome = "match"
	OutcomeWeakMatch  Outcome = "weakMatch"
	OutcomeMismatch   Outcome = "mismatch"
	OutcomeNotPresent Outcome = "not_present"
)

type Level string

const (
	LevelTrusted    Level = "trusted"
	LevelSuspicious Level = "suspicious"
	LevelRejected   Level = "rejected"
)

type Overall string

const (
	OverallMatch        Overall = "MATCH"
	OverallPartialMatch Overall = "PARTIAL_MATCH"
	OverallMismatch     Overall = "MISMATCH"
)

const (
	ReasonRejected   = "Hard mismatch in critical fields (phone/name/make/color)."
	ReasonTrusted    = "Officer-entered details match RC details under strict normalization."
	ReasonSuspicious = "No hard mismatches, but similarity below strict threshold."

	trustedScore = 0.90
)

var outcomeWeights = map[Outcome]float64{
	OutcomeMatch:     1.0,
	OutcomeWeakMatch: 0.6,
}

// FieldWeights sum to 22.
var FieldWeights = []struct {
	Field  string
	Weight int
}{
	{"phone", 6},
	{"name", 4},
	{"make", 4},
	{"color", 3},
	{"model", 3},
	{"address", 2},
}

// Decision is the outcome of comparing officer input with a registry record.
type Decision struct {
	Overall Overall            `json:"overall"`
	Level   Level              `json:"level"`
	Score   float64            `json:"score"`
	Reason  string             `json:"reason"`
	Fields  map[string]Outcome `json:"fields"`
}

// StrictSimilarity is 1 - lev/maxlen over upper-case normalized text, 0 when
// either side is empty.
func StrictSimilarity(a, b string) float64 {
	a, b = normalize.TextStrict(a), normalize.TextStrict(b)
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	longest := math.Max(float64(len(ra)), float64(len(rb)))
	s := 1 - float64(levenshtein.ComputeDistance(a, b))/longest
	return math.Max(0, math.Min(1, s))
}

func graded(s, match, weak float64) Outcome {
	switch {
	case s >= match:
		return OutcomeMatch
	case s >= weak:
		return OutcomeWeakMatch
	default:
		return OutcomeMismatch
	}
}

// CompareOfficerVsRegistry classifies each officer field against the record.
// Phone, name, make and colour are critical: a mismatch or a missing officer
// value rejects the whole decision.
func CompareOfficerVsRegistry(officer models.OfficerInput, record models.VehicleRecord) Decision {
	fields := make(map[string]Outcome, len(FieldWeights))
	hardFail := false

	oPhone, rPhone := normalize.PhoneDigits(officer.Phone), normalize.PhoneDigits(record.OwnerPhone)
	switch {
	case oPhone == "":
		fields["phone"] = OutcomeNotPresent
		hardFail = true
	case rPhone != "" && oPhone == rPhone:
		fields["phone"] = OutcomeMatch
	default:
		fields["phone"] = OutcomeMismatch
		hardFail = true
	}

	if oName := normalize.TextStrict(officer.Name); oName == "" {
		fields["name"] = OutcomeNotPresent
		hardFail = true
	} else {
		fields["name"] = graded(StrictSimilarity(oName, record.OwnerName), 0.90, 0.82)
		if fields["name"] == OutcomeMismatch {
			hardFail = true
		}
	}

	if oAddr := normalize.TextStrict(officer.Address); oAddr == "" {
		fields["address"] = OutcomeNotPresent
	} else {
		fields["address"] = graded(StrictSimilarity(oAddr, record.OwnerAddress), 0.85, 0.75)
	}

	if oMake := normalize.MakeModel(officer.VehicleMake); oMake == "" {
		fields["make"] = OutcomeNotPresent
		hardFail = true
	} else if oMake == normalize.MakeModel(record.Maker) {
		fields["make"] = OutcomeMatch
	} else {
		fields["make"] = OutcomeMismatch
		hardFail = true
	}

	if oColor := normalize.Color(officer.VehicleColor); oColor == "" {
		fields["color"] = OutcomeNotPresent
		hardFail = true
	} else if oColor == normalize.Color(record.Color) {
		fields["color"] = OutcomeMatch
	} else {
		fields["color"] = OutcomeMismatch
		hardFail = true
	}

	if oModel := normalize.MakeModel(officer.VehicleModel); oModel == "" {
		fields["model"] = OutcomeNotPresent
	} else {
		fields["model"] = graded(StrictSimilarity(oModel, normalize.MakeModel(record.Model)), 0.85, 0.78)
	}

	total, weighted := 0, 0.0
	for _, fw := range FieldWeights {
		total += fw.Weight
		weighted += outcomeWeights[fields[fw.Field]] * float64(fw.Weight)
	}
	score := weighted / float64(total)

	d := Decision{Score: score, Fields: fields}
	switch {
	case hardFail:
		d.Level, d.Overall, d.Reason = LevelRejected, OverallMismatch, ReasonRejected
	case score >= trustedScore:
		d.Level, d.Overall, d.Reason = LevelTrusted, OverallMatch, ReasonTrusted
	default:
		d.Level, d.Overall, d.Reason = LevelSuspicious, OverallPartialMatch, ReasonSuspicious
	}
	return d
}
