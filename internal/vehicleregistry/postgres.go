// internal/vehicleregistry/postgres.go
package vehicleregistry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-verification/internal/models"
)

// PostgresStore reads the vehicle_registry table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, plate string) (*models.VehicleRecord, error) {
	query := `
		SELECT plate, maker, model, color, owner_name, owner_address, owner_phone,
		       COALESCE(vehicle_type, ''), COALESCE(fuel_type, '')
		FROM vehicle_registry
		WHERE plate = $1
	`

	var r models.VehicleRecord
	err := s.db.QueryRowContext(ctx, query, plate).Scan(
		&r.Plate, &r.Maker, &r.Model, &r.Color,
		&r.OwnerName, &r.OwnerAddress, &r.OwnerPhone,
		&r.VehicleType, &r.FuelType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query vehicle %s: %w", plate, err)
	}
	return &r, nil
}

func (s *PostgresStore) Plates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT plate FROM vehicle_registry ORDER BY plate`)
	if err != nil {
		return nil, fmt.Errorf("query plates: %w", err)
	}
	defer rows.Close()

	var plates []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan plate: %w", err)
		}
		plates = append(plates, p)
	}
	return plates, rows.Err()
}

// Seed upserts records, typically ReferenceVehicles in development.
func (s *PostgresStore) Seed(ctx context.Context, records []models.VehicleRecord) error {
	query := `
		INSERT INTO vehicle_registry
			(plate, maker, model, color, owner_name, owner_address, owner_phone, vehicle_type, fuel_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NOW())
		ON CONFLICT (plate) DO UPDATE SET
			maker = EXCLUDED.maker,
			model = EXCLUDED.model,
			color = EXCLUDED.color,
			owner_name = EXCLUDED.owner_name,
			owner_address = EXCLUDED.owner_address,
			owner_phone = EXCLUDED.owner_phone,
			vehicle_type = EXCLUDED.vehicle_type,
			fuel_type = EXCLUDED.fuel_type,
			updated_at = NOW()
	`

	for _, r := range records {
		if _, err := s.db.ExecContext(ctx, query,
			r.Plate, r.Maker, r.Model, r.Color,
			r.OwnerName, r.OwnerAddress, r.OwnerPhone,
			r.VehicleType, r.FuelType,
		); err != nil {
			return fmt.Errorf("seed vehicle %s: %w", r.Plate, err)
		}
	}
	return nil
}
