// internal/models/vehicle.go
package models

// VehicleRecord is the registration certificate data held by the vehicle
// registry for one plate.
type VehicleRecord struct {
	Plate        string `json:"plate,omitempty"`
	Maker        string `json:"maker"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	OwnerName    string `json:"owner_name"`
	OwnerAddress string `json:"owner_address"`
	OwnerPhone   string `json:"owner_phone"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
}

// OfficerInput holds the details a field officer typed for a vehicle.
type OfficerInput struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehicleColor string `json:"vehicle_color"`
}
