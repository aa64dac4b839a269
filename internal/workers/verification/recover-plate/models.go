// internal/workers/verification/recover-plate/models.go
package recoverplate

type Input struct {
	RawText           string   `json:"rawText"`
	Preferred         []string `json:"preferred,omitempty"`
	PreferredOnly     bool     `json:"preferredOnly,omitempty"`
	UseRegistryPlates bool     `json:"useRegistryPlates,omitempty"`
}

type Output struct {
	VehicleNo string  `json:"vehicleNo"`
	Recovered bool    `json:"recovered"`
	Mode      string  `json:"mode"`
	Cost      float64 `json:"cost"`
}
