// internal/verification/normalize/normalize_test.go
package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Text Tests
// ==========================

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and strips punctuation", "Ravi  Kumar, Jr.", "ravi kumar jr"},
		{"collapses whitespace", "  a \t b\n\nc ", "a b c"},
		{"keeps digits", "Invoice #00123", "invoice 00123"},
		{"empty", "", ""},
		{"only punctuation", "--**--", ""},
		{"full-width digits fold", "ＡＢＣ１２３", "abc123"},
		{"accents fold", "Café Décor", "cafe decor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestTextStrict(t *testing.T) {
	assert.Equal(t, "NO 12 ANNA NAGAR CHENNAI", TextStrict("No. 12, Anna Nagar,  Chennai"))
	assert.Equal(t, "", TextStrict(" ,. "))
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"Ravi Kumar",
		"  MARUTI  ",
		"Pearl White!!",
		"7/21, Periyar Street",
		"ＴＮ１０ ＢＥ",
		"",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, Text(in), Text(Text(in)))
			assert.Equal(t, TextStrict(in), TextStrict(TextStrict(in)))
			assert.Equal(t, MakeModel(in), MakeModel(MakeModel(in)))
			assert.Equal(t, Color(in), Color(Color(in)))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"blue", "cotton", "shirt"}, Tokens("Blue cotton-shirt"))
	assert.Nil(t, Tokens("  "))
}

// ==========================
// Phone Tests
// ==========================

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain ten digits", "9876543210", "9876543210"},
		{"country code", "+91 98765-43210", "9876543210"},
		{"too short", "12345", ""},
		{"empty", "", ""},
		{"letters only", "call me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.input))
		})
	}
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "9876543210", PhoneDigits("+91-9876543210"))
	assert.Equal(t, "12345", PhoneDigits("12-345"))
	assert.Equal(t, "", PhoneDigits("n/a"))
}

func TestAlnum(t *testing.T) {
	assert.Equal(t, "TN10BE8962", Alnum("tn 10-be.8962"))
	assert.Equal(t, "", Alnum("--"))
}

// ==========================
// Money Tests
// ==========================

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{"float", 1200.5, 1200.5, true},
		{"int", 300, 300, true},
		{"plain string", "1200", 1200, true},
		{"thousands separator", "1,20,000.50", 120000.5, true},
		{"rupee marker", "₹ 4,500", 4500, true},
		{"rs marker", "Rs. 999/-", 999, true},
		{"json number", json.Number("42.25"), 42.25, true},
		{"nil", nil, 0, false},
		{"not numeric", "twelve hundred", 0, false},
		{"empty string", "", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Money(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

// ==========================
// Vehicle Field Tests
// ==========================

func TestMakeModel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Maruti", "MARUTI SUZUKI"},
		{"maruti suzuki india", "MARUTI SUZUKI"},
		{"Hero-Honda", "HERO"},
		{"Bajaj Auto", "BAJAJ"},
		{"TVS Motor", "TVS"},
		{"Activa 6G", "ACTIVA 6G"},
		{"Maruti Swift", "MARUTI SWIFT"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MakeModel(tt.input))
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Pearl White", "WHITE"},
		{"off-white", "WHITE"},
		{"gray", "GREY"},
		{"Metallic Silver", "SILVER"},
		{"dark black", "BLACK"},
		{"Candy Red", "RED"},
		{"Purple Haze", "PURPLE"},
		{"123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Color(tt.input))
		})
	}
}
