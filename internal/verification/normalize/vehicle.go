// internal/verification/normalize/vehicle.go
package normalize

import "strings"

var makeModelSynonyms = map[string]string{
	"MARUTI":              "MARUTI SUZUKI",
	"MARUTI SUZUKI INDIA": "MARUTI SUZUKI",
	"HERO HONDA":          "HERO",
	"BAJAJ AUTO":          "BAJAJ",
	"TVS MOTOR":           "TVS",
}

// colorSynonyms is ordered: the first phrase contained in the input wins.
var colorSynonyms = []struct {
	phrase    string
	canonical string
}{
	{"PEARL WHITE", "WHITE"},
	{"OFF WHITE", "WHITE"},
	{"WHITE", "WHITE"},
	{"BLACK", "BLACK"},
	{"DARK BLACK", "BLACK"},
	{"SILVER", "SILVER"},
	{"METALLIC SILVER", "SILVER"},
	{"GREY", "GREY"},
	{"GRAY", "GREY"},
	{"METALLIC GREY", "GREY"},
	{"RED", "RED"},
	{"BLUE", "BLUE"},
	{"GREEN", "GREEN"},
	{"YELLOW", "YELLOW"},
	{"BROWN", "BROWN"},
	{"ORANGE", "ORANGE"},
	{"MAROON", "MAROON"},
	{"BEIGE", "BEIGE"},
}

// MakeModel canonicalizes a vehicle maker or model name. Synonyms only apply
// to the whole string.
func MakeModel(s string) string {
	t := TextStrict(s)
	if rep, ok := makeModelSynonyms[t]; ok {
		return rep
	}
	return t
}

// Color maps a free-form colour description onto a canonical colour.
func Color(s string) string {
	t := strings.ToUpper(fold(s))
	t = collapse(nonAlphaUpper.ReplaceAllString(t, " "))
	if t == "" {
		return ""
	}
	for _, c := range colorSynonyms {
		if t == c.phrase {
			return c.canonical
		}
	}
	for _, c := range colorSynonyms {
		if strings.Contains(t, c.phrase) {
			return c.canonical
		}
	}
	return strings.SplitN(t, " ", 2)[0]
}
