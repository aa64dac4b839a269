// internal/workers/verification/lookup-vehicle/models.go
package lookupvehicle

import "field-verification/internal/models"

type Input struct {
	VehicleNo string `json:"vehicleNo"`
}

type Output struct {
	VehicleNo string                `json:"vehicleNo"`
	Source    string                `json:"source"`
	Vehicle   *models.VehicleRecord `json:"vehicle"`
}
