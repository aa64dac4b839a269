// internal/verification/similarity/similarity_test.go
package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fuzzy Ratio Tests
// ==========================

func TestRatio(t *testing.T) {
	assert.Equal(t, 100.0, Ratio("abc", "abc"))
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.InDelta(t, 61.538, Ratio("kitten", "sitting"), 0.001)
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("kumar ravi", "ravi kumar"))
	assert.Less(t, TokenSortRatio("ravi", "ravi kumar"), 100.0)
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "anna nagar", "anna nagar", 100},
		{"subset scores full", "ravi kumar", "ravi kumar singh", 100},
		{"disjoint", "a b", "c d", 100.0 / 3},
		{"empty side", "", "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TokenSetRatio(tt.a, tt.b), 0.001)
		})
	}
}

func TestTokenSetRatio_PartialOverlapUsesIntersection(t *testing.T) {
	got := TokenSetRatio("baner road pune", "baner road mumbai")
	// "baner road" vs "baner road pune" is the best of the three pairings
	assert.InDelta(t, 80.0, got, 0.001)
	assert.InDelta(t, Ratio("baner road", "baner road pune"), got, 0.001)
}

// ==========================
// Field Similarity Tests
// ==========================

func TestText(t *testing.T) {
	s, err := Text("Anna Nagar Chennai", "anna nagar, chennai tamil nadu")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)

	s, err = Text("", "anything")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s)

	_, err = Text(map[string]interface{}{"a": 1}, "x")
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		a, b     interface{}
		expected float64
	}{
		{"same number different format", "+91 98765 43210", "9876543210", 1},
		{"numeric input", 9876543210.0, "98765-43210", 1},
		{"different number", "9876543210", "9876500000", 0},
		{"short number", "12345", "12345", 0},
		{"missing side", "9876543210", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Phone(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		a, b     interface{}
		expected float64
	}{
		{"within one percent", 1000.0, 1005.0, 1},
		{"within absolute rupee", 50.0, 50.9, 1},
		{"ten percent off", 1000.0, 1100.0, 1 - 100.0/220.0},
		{"beyond twenty percent", 1000.0, 1300.0, 0},
		{"string with separators", "1,000", 1000.0, 1},
		{"non numeric", "abc", 100.0, 0},
		{"zero", 0.0, 100.0, 0},
		{"negative", -10.0, -10.0, 0},
		{"missing", nil, 100.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Amount(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, s, 1e-9)
		})
	}
}

func TestItem(t *testing.T) {
	s, err := Item("Mahindra 275 DI TU", "Mahindra")
	require.NoError(t, err)
	assert.InDelta(t, 0.35, s, 1e-9)

	s, err = Item("Blue Shirt", "blue shirt")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)

	s, err = Item("Blue Shirt", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s)
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"honorific and initial", "Mr. Ravi Kumar", "R Kumar", 1, 1},
		{"reordered", "Kumar Ravi", "Ravi Kumar", 1, 1},
		{"missing surname", "Priya Sharma", "Priya", 0.66, 0.67},
		{"unrelated", "Ravi Kumar", "Priya Sharma", 0, 0.4},
		{"empty", "Mrs", "Priya", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Name(tt.a, tt.b)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, s, tt.min)
			assert.LessOrEqual(t, s, tt.max)
		})
	}
}

func TestName_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Ravi Kumar", "Kumar R"},
		{"Senthil Nathan", "S Nathan"},
		{"Vikram Patil", "Vikram S Patil"},
	}

	for _, p := range pairs {
		ab, err := Name(p[0], p[1])
		require.NoError(t, err)
		ba, err := Name(p[1], p[0])
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-9, "%q vs %q", p[0], p[1])
	}
}

func TestStringify(t *testing.T) {
	s, err := Stringify(9876543210.0)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", s)

	s, err = Stringify(nil)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = Stringify([]string{"x"})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
