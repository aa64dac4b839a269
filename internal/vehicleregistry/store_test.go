// internal/vehicleregistry/store_test.go
package vehicleregistry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"field-verification/internal/common/logger"
	"field-verification/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Memory store
// ==========================

func TestMemoryStore(t *testing.T) {
	s := NewReferenceStore()
	ctx := context.Background()

	r, err := s.Get(ctx, "TN10BE8962")
	require.NoError(t, err)
	assert.Equal(t, "Honda", r.Maker)
	assert.Equal(t, "9876543210", r.OwnerPhone)

	_, err = s.Get(ctx, "KA01AA0001")
	assert.ErrorIs(t, err, ErrNotFound)

	plates, err := s.Plates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DL7CQ1939", "MH02AM5541", "MH12DE1433", "TN10BE8962", "TN13AB7294"}, plates)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewReferenceStore()
	r, err := s.Get(context.Background(), "MH12DE1433")
	require.NoError(t, err)
	r.Color = "PINK"

	again, _ := s.Get(context.Background(), "MH12DE1433")
	assert.Equal(t, "WHITE", again.Color)
}

// ==========================
// Postgres store
// ==========================

var vehicleColumns = []string{
	"plate", "maker", "model", "color", "owner_name", "owner_address", "owner_phone", "vehicle_type", "fuel_type",
}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT plate, maker, model").
		WithArgs("MH02AM5541").
		WillReturnRows(sqlmock.NewRows(vehicleColumns).AddRow(
			"MH02AM5541", "Mahindra", "Yuvo 575 DI", "RED", "VIKRAM PATIL",
			"GALA NO 12, KURLA WEST, MUMBAI, MAHARASHTRA", "9890012345", "TRACTOR", "DIESEL",
		))

	r, err := NewPostgresStore(db).Get(context.Background(), "MH02AM5541")
	require.NoError(t, err)
	assert.Equal(t, "TRACTOR", r.VehicleType)
	assert.Equal(t, "DIESEL", r.FuelType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT plate, maker, model").
		WithArgs("KA01AA0001").
		WillReturnRows(sqlmock.NewRows(vehicleColumns))

	_, err = NewPostgresStore(db).Get(context.Background(), "KA01AA0001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_GetQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT plate, maker, model").WillReturnError(fmt.Errorf("connection reset"))

	_, err = NewPostgresStore(db).Get(context.Background(), "TN10BE8962")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStore_Plates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT plate FROM vehicle_registry").
		WillReturnRows(sqlmock.NewRows([]string{"plate"}).AddRow("DL7CQ1939").AddRow("TN10BE8962"))

	plates, err := NewPostgresStore(db).Plates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"DL7CQ1939", "TN10BE8962"}, plates)
}

func TestPostgresStore_Seed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range ReferenceVehicles {
		mock.ExpectExec("INSERT INTO vehicle_registry").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, NewPostgresStore(db).Seed(context.Background(), ReferenceVehicles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Cached store
// ==========================

type countingStore struct {
	Store
	gets   int
	plates int
}

func (c *countingStore) Get(ctx context.Context, plate string) (*models.VehicleRecord, error) {
	c.gets++
	return c.Store.Get(ctx, plate)
}

func (c *countingStore) Plates(ctx context.Context) ([]string, error) {
	c.plates++
	return c.Store.Plates(ctx)
}

func newCachedStore(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	backing := &countingStore{Store: NewReferenceStore()}
	return NewCachedStore(backing, rdb, logger.NewTestLogger(t), 10*time.Minute, time.Minute), backing, mr
}

func TestCachedStore_GetCachesRecord(t *testing.T) {
	s, backing, mr := newCachedStore(t)
	ctx := context.Background()

	first, err := s.Get(ctx, "TN10BE8962")
	require.NoError(t, err)
	second, err := s.Get(ctx, "TN10BE8962")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.gets)
	assert.True(t, mr.Exists("vehicle:rc:TN10BE8962"))
	assert.Equal(t, 10*time.Minute, mr.TTL("vehicle:rc:TN10BE8962"))
}

func TestCachedStore_NotFoundIsNotCached(t *testing.T) {
	s, backing, mr := newCachedStore(t)

	_, err := s.Get(context.Background(), "KA01AA0001")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(context.Background(), "KA01AA0001")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, backing.gets)
	assert.False(t, mr.Exists("vehicle:rc:KA01AA0001"))
}

func TestCachedStore_CorruptEntryFallsThrough(t *testing.T) {
	s, backing, mr := newCachedStore(t)
	require.NoError(t, mr.Set("vehicle:rc:MH12DE1433", "{not json"))

	r, err := s.Get(context.Background(), "MH12DE1433")
	require.NoError(t, err)
	assert.Equal(t, "Swift", r.Model)
	assert.Equal(t, 1, backing.gets)

	raw, _ := mr.Get("vehicle:rc:MH12DE1433")
	var cached models.VehicleRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, "MH12DE1433", cached.Plate)
}

func TestCachedStore_PlatesAndInvalidate(t *testing.T) {
	s, backing, mr := newCachedStore(t)
	ctx := context.Background()

	_, err := s.Plates(ctx)
	require.NoError(t, err)
	plates, err := s.Plates(ctx)
	require.NoError(t, err)
	assert.Len(t, plates, 5)
	assert.Equal(t, 1, backing.plates)

	_, err = s.Get(ctx, "TN10BE8962")
	require.NoError(t, err)

	require.NoError(t, s.Invalidate(ctx, "TN10BE8962"))
	assert.False(t, mr.Exists("vehicle:plates"))
	assert.False(t, mr.Exists("vehicle:rc:TN10BE8962"))
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	backing := &countingStore{Store: NewReferenceStore()}
	s := NewCachedStore(backing, rdb, logger.NewNoOpLogger(), time.Minute, time.Minute)

	mock.ExpectGet("vehicle:rc:DL7CQ1939").SetErr(fmt.Errorf("dial tcp: connection refused"))
	mock.Regexp().ExpectSet("vehicle:rc:DL7CQ1939", `.*`, time.Minute).SetErr(fmt.Errorf("dial tcp: connection refused"))

	r, err := s.Get(context.Background(), "DL7CQ1939")
	require.NoError(t, err)
	assert.Equal(t, "E_RICKSHAW", r.VehicleType)
	assert.Equal(t, 1, backing.gets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
