package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/db"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// Requires a disposable database; the incident table is emptied.
func openStore(t *testing.T) *db.Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := db.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.EnsureSchema(ctx))

	list, err := store.List(ctx)
	require.NoError(t, err)
	for _, inc := range list {
		require.NoError(t, store.Delete(ctx, inc.ID))
	}
	return store
}

func TestStoreLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := incidents.Incident{
		ID:          "INC-000001",
		SensorKind:  models.KindWater,
		Location:    "Pozo B1",
		Severity:    incidents.PriorityHigh,
		Description: "Metales sobre el umbral",
		Status:      incidents.StatusOpen,
		Date:        now,
	}
	second := first
	second.ID = "INC-000002"
	second.SensorKind = models.KindSoil

	require.NoError(t, store.Insert(ctx, first))
	require.NoError(t, store.Insert(ctx, second))
	assert.ErrorIs(t, store.Insert(ctx, first), incidents.ErrDuplicate)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INC-000002", list[0].ID)
	assert.Equal(t, models.KindSoil, list[0].SensorKind)
	assert.True(t, now.Equal(list[1].Date))

	updated, err := store.UpdateStatus(ctx, "INC-000001", incidents.StatusClosed, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, incidents.StatusClosed, updated.Status)

	_, err = store.UpdateStatus(ctx, "INC-404404", incidents.StatusClosed, now)
	assert.ErrorIs(t, err, incidents.ErrNotFound)

	got, err := store.Get(ctx, "INC-000001")
	require.NoError(t, err)
	assert.Equal(t, incidents.StatusClosed, got.Status)

	require.NoError(t, store.Delete(ctx, "INC-000001"))
	assert.ErrorIs(t, store.Delete(ctx, "INC-000001"), incidents.ErrNotFound)
	_, err = store.Get(ctx, "INC-000001")
	assert.ErrorIs(t, err, incidents.ErrNotFound)
}
