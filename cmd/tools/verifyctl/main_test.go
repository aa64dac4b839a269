package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"field-verification/internal/models"
	"field-verification/internal/vehicleregistry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	cmd := newRootCmd(&env{store: vehicleregistry.NewReferenceStore()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got, nil
}

func writeFile(t *testing.T, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ==========================
// compare
// ==========================

func TestCompareCmd(t *testing.T) {
	agreement := writeFile(t, "agreement.json", map[string]interface{}{
		"name":   "Ravi Kumar",
		"phone":  "9876543210",
		"amount": "₹85,000",
	})

	tests := []struct {
		name        string
		extracted   map[string]interface{}
		wantVerdict string
		wantHard    bool
	}{
		{
			name:        "matching invoice",
			extracted:   map[string]interface{}{"name": "RAVI KUMAR", "phone": "+91 98765 43210", "amount": 85000},
			wantVerdict: "trusted",
		},
		{
			name:        "phone mismatch",
			extracted:   map[string]interface{}{"name": "Ravi Kumar", "phone": "9000000000", "amount": 85000},
			wantVerdict: "likely_fake",
			wantHard:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted := writeFile(t, "extracted.json", tt.extracted)
			got, err := run(t, "compare", "--doc-type", "invoice", agreement, extracted)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerdict, got["verdict"])
			assert.Equal(t, tt.wantHard, got["hardFail"])
			assert.NotEmpty(t, got["verificationId"])
		})
	}
}

func TestCompareCmd_MissingFile(t *testing.T) {
	_, err := run(t, "compare", "missing-a.json", "missing-b.json")
	assert.ErrorContains(t, err, "read missing-a.json")
}

// ==========================
// plate / lookup
// ==========================

func TestPlateCmd(t *testing.T) {
	got, err := run(t, "plate", "TNIOBE8962", "--registry")
	require.NoError(t, err)
	assert.Equal(t, "TN10BE8962", got["vehicleNo"])
	assert.Equal(t, true, got["recovered"])

	got, err = run(t, "plate", "KA01")
	require.NoError(t, err)
	assert.Equal(t, false, got["recovered"])
}

func TestLookupCmd(t *testing.T) {
	got, err := run(t, "lookup", "mh 12 de 1433")
	require.NoError(t, err)
	assert.Equal(t, "MH12DE1433", got["vehicleNo"])
	vehicle := got["vehicle"].(map[string]interface{})
	assert.Equal(t, "PRIYA SHARMA", vehicle["owner_name"])

	_, err = run(t, "lookup", "KA05MN4321")
	assert.ErrorContains(t, err, "VEHICLE_NOT_FOUND")
}

// ==========================
// officer
// ==========================

func TestOfficerCmd(t *testing.T) {
	officerFile := writeFile(t, "officer.json", models.OfficerInput{
		Name:         "Ravi Kumar",
		Address:      "No 12, Anna Nagar, Chennai, Tamil Nadu",
		Phone:        "+91 98765 43210",
		VehicleMake:  "Honda",
		VehicleModel: "Activa 6G",
		VehicleColor: "Black",
	})

	got, err := run(t, "officer", "", "TA10BE8962", "--officer-file", officerFile)
	require.NoError(t, err)
	assert.Equal(t, "TN10BE8962", got["vehicleNo"])
	assert.Equal(t, float64(1), got["matchedVariant"])
	assert.Equal(t, float64(100), got["stepScore"])

	got, err = run(t, "officer", "TN10BE8962", "--officer-file", officerFile, "--color", "Red")
	require.NoError(t, err)
	decision := got["decision"].(map[string]interface{})
	assert.Equal(t, "rejected", decision["level"])
}

func TestMergeOfficer_FlagsWin(t *testing.T) {
	dst := models.OfficerInput{VehicleColor: "Red"}
	mergeOfficer(&dst, models.OfficerInput{Name: "Ravi", VehicleColor: "Black"})
	assert.Equal(t, "Ravi", dst.Name)
	assert.Equal(t, "Red", dst.VehicleColor)
}
