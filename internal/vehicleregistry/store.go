// Package vehicleregistry resolves canonical plates to registration
// certificate records.
package vehicleregistry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"field-verification/internal/models"
)

// ErrNotFound is returned when a plate has no registry record.
var ErrNotFound = errors.New("VEHICLE_NOT_FOUND")

// Store is the read side of the vehicle registry.
type Store interface {
	Get(ctx context.Context, plate string) (*models.VehicleRecord, error)
	Plates(ctx context.Context) ([]string, error)
}

// ReferenceVehicles is the seed data used by the in-memory registry and by
// PostgresStore.Seed.
var ReferenceVehicles = []models.VehicleRecord{
	{
		Plate:        "TN10BE8962",
		Maker:        "Honda",
		Model:        "Activa 6G",
		Color:        "BLACK",
		OwnerName:    "RAVI KUMAR",
		OwnerAddress: "NO 12, ANNA NAGAR, CHENNAI, TAMIL NADU",
		OwnerPhone:   "9876543210",
	},
	{
		Plate:        "MH12DE1433",
		Maker:        "Maruti Suzuki",
		Model:        "Swift",
		Color:        "WHITE",
		OwnerName:    "PRIYA SHARMA",
		OwnerAddress: "A-402, BANER ROAD, PUNE, MAHARASHTRA",
		OwnerPhone:   "9123456780",
	},
	{
		Plate:        "TN13AB7294",
		Maker:        "Mahindra",
		Model:        "Treo",
		Color:        "BLUE",
		OwnerName:    "SENTHIL NATHAN",
		OwnerAddress: "7/21, PERIYAR STREET, MADURAI, TAMIL NADU",
		OwnerPhone:   "9000012345",
	},
	{
		Plate:        "MH02AM5541",
		Maker:        "Mahindra",
		Model:        "Yuvo 575 DI",
		Color:        "RED",
		OwnerName:    "VIKRAM PATIL",
		OwnerAddress: "GALA NO 12, KURLA WEST, MUMBAI, MAHARASHTRA",
		OwnerPhone:   "9890012345",
		VehicleType:  "TRACTOR",
		FuelType:     "DIESEL",
	},
	{
		Plate:        "DL7CQ1939",
		Maker:        "Mahindra",
		Model:        "Treo",
		Color:        "BLUE",
		OwnerName:    "RAHUL VERMA",
		OwnerAddress: "H NO 36, UTTAM NAGAR, NEW DELHI, DELHI",
		OwnerPhone:   "9810019876",
		VehicleType:  "E_RICKSHAW",
		FuelType:     "ELECTRIC",
	},
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.VehicleRecord
}

// NewMemoryStore copies records into a new store.
func NewMemoryStore(records []models.VehicleRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[string]models.VehicleRecord, len(records))}
	for _, r := range records {
		s.records[r.Plate] = r
	}
	return s
}

// NewReferenceStore returns a MemoryStore holding ReferenceVehicles.
func NewReferenceStore() *MemoryStore {
	return NewMemoryStore(ReferenceVehicles)
}

func (s *MemoryStore) Get(_ context.Context, plate string) (*models.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[plate]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Plates(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.records))
	for p := range s.records {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Put adds or replaces a record.
func (s *MemoryStore) Put(r models.VehicleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.Plate] = r
}
