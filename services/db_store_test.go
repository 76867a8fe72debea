package services

import (
	"context"
	"path/filepath"
	"testing"

	"salonpro-crm/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySchema_Idempotent(t *testing.T) {
	store := openTestSQLite(t)

	require.NoError(t, ApplySchema(context.Background(), store.db))
}

func TestDBStore_DeleteCascadesToVisits(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	jane := mustCreate(t, store, "Jane Doe", "555-0100")
	bob := mustCreate(t, store, "Bob Smith", "555-0101")
	for _, id := range []string{jane.ID, jane.ID, bob.ID} {
		_, err := store.AddVisit(ctx, id, []string{"Haircut"}, "")
		require.NoError(t, err)
	}

	deleted, err := store.Delete(ctx, jane.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	var orphans int64
	require.NoError(t, store.db.Model(&visitRow{}).Where("customer_id = ?", jane.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	var remaining int64
	require.NoError(t, store.db.Model(&visitRow{}).Where("customer_id = ?", bob.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestDBStore_DuplicatePhoneRejectedByConstraint(t *testing.T) {
	store := openTestSQLite(t)
	mustCreate(t, store, "Jane Doe", "555-0100")

	_, err := store.Create(context.Background(), CreateCustomerInput{Name: "Other Jane", PhoneNumber: "555-0100"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestDBStore_UpdateToTakenPhoneRejected(t *testing.T) {
	store := openTestSQLite(t)
	mustCreate(t, store, "Jane Doe", "555-0100")
	bob := mustCreate(t, store, "Bob Smith", "555-0101")

	_, err := store.Update(context.Background(), bob.ID, UpdateCustomerInput{PhoneNumber: ptr("555-0100")})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestDBStore_ClosedConnectionIsStorageError(t *testing.T) {
	store := openTestSQLite(t)
	require.NoError(t, store.Close())

	_, err := store.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrStorage)

	_, err = store.GetByID(context.Background(), "any")
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrCustomerNotFound)
}

func TestSelectBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("no database url", func(t *testing.T) {
		cfg := config.Default()
		cfg.DataFile = filepath.Join(t.TempDir(), "customers.json")

		svc := SelectBackend(ctx, cfg, nil)
		defer svc.Close()
		assert.Equal(t, BackendFile, svc.Backend())
	})

	t.Run("unknown driver falls back", func(t *testing.T) {
		cfg := config.Default()
		cfg.DataFile = filepath.Join(t.TempDir(), "customers.json")
		cfg.DatabaseURL = "whatever"
		cfg.DBDriver = "oracle"

		svc := SelectBackend(ctx, cfg, nil)
		defer svc.Close()
		assert.Equal(t, BackendFile, svc.Backend())
	})

	t.Run("unreachable database falls back", func(t *testing.T) {
		cfg := config.Default()
		cfg.DataFile = filepath.Join(t.TempDir(), "customers.json")
		cfg.DBDriver = config.DriverSQLite
		cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing", "dir", "crm.sqlite")

		svc := SelectBackend(ctx, cfg, nil)
		defer svc.Close()
		assert.Equal(t, BackendFile, svc.Backend())
	})

	t.Run("reachable database", func(t *testing.T) {
		cfg := config.Default()
		cfg.DataFile = filepath.Join(t.TempDir(), "customers.json")
		cfg.DBDriver = config.DriverSQLite
		cfg.DatabaseURL = filepath.Join(t.TempDir(), "crm.sqlite")

		svc := SelectBackend(ctx, cfg, nil)
		defer svc.Close()
		assert.Equal(t, BackendDatabase, svc.Backend())

		c := mustCreate(t, svc, "Jane Doe", "555-0100")
		got, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.Name)
	})
}
