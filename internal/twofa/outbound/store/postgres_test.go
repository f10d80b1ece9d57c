package store_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
	"github.com/shandysiswandi/seedotp/internal/twofa/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgres_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("seedotp"),
		tcpostgres.WithUsername("seedotp"),
		tcpostgres.WithPassword("seedotp"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s, err := store.New(ctx, store.DriverPostgres, store.Options{Postgres: pool, Instrument: instrument.NewNoop()})
	require.NoError(t, err)

	// Migrate is idempotent.
	require.NoError(t, store.NewPostgres(pool, instrument.NewNoop()).Migrate(ctx))

	_, err = s.Read(ctx)
	require.ErrorIs(t, err, goerror.ErrNotFound)

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "0011"))
	require.NoError(t, s.Write(ctx, "a1b2c3"))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.HexSeed("a1b2c3"), got)

	var rows int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM twofa_seed").Scan(&rows))
	assert.Equal(t, 1, rows)
}
