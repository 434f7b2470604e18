//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/config"
	"wellflow/pkg/database"
	"wellflow/services/hydraulics-svc/internal/repository"
	"wellflow/services/hydraulics-svc/migrations"
)

// requirePostgres подключается к тестовой базе и накатывает миграции.
// Запуск: INTEGRATION_TESTS=1 go test -tags integration ./...
func requirePostgres(t *testing.T) *database.Postgres {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("skipping integration test; set INTEGRATION_TESTS=1 to run")
	}

	port, _ := strconv.Atoi(envOrDefault("POSTGRES_PORT", "5433"))
	cfg := &config.DatabaseConfig{
		Enabled:         true,
		Host:            envOrDefault("POSTGRES_HOST", "localhost"),
		Port:            port,
		Database:        envOrDefault("POSTGRES_DB", "wellflow_test"),
		Username:        envOrDefault("POSTGRES_USER", "postgres"),
		Password:        envOrDefault("POSTGRES_PASSWORD", "postgres"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(db.Close)

	m, err := database.NewMigrator(db.Pool, migrations.FS, ".")
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Up(ctx))

	return db
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ptr(v float64) *float64 { return &v }

func TestPostgresRunRepository_Lifecycle(t *testing.T) {
	db := requirePostgres(t)
	repo := repository.NewPostgresRunRepository(db)
	ctx := context.Background()

	tag := "it-" + uuid.NewString()[:8]
	runs := []*repository.Run{
		{
			Kind:               repository.KindCalculate,
			Method:             "hagedorn-brown",
			SurfacePressure:    500,
			BottomholePressure: ptr(3200),
			PressureDrop:       ptr(2700),
			DepthSteps:         100,
			InputHash:          "h1",
			Input:              []byte(`{"surface_pressure":500}`),
			Result:             []byte(`{"bottomhole_pressure":3200}`),
			DurationMs:         12.5,
			Tags:               []string{tag},
		},
		{
			Kind:               repository.KindCalculate,
			Method:             "gray",
			SurfacePressure:    500,
			BottomholePressure: ptr(3000),
			PressureDrop:       ptr(2500),
			DepthSteps:         100,
			InputHash:          "h1",
			Input:              []byte(`{"surface_pressure":500}`),
			Result:             []byte(`{"bottomhole_pressure":3000}`),
			DurationMs:         7.5,
			Tags:               []string{tag, "gray"},
		},
		{
			Kind:            repository.KindCompare,
			Method:          "compare",
			SurfacePressure: 500,
			DepthSteps:      100,
			InputHash:       "h2",
			Input:           []byte(`{}`),
			Result:          []byte(`{}`),
			Tags:            []string{tag},
		},
	}

	for _, r := range runs {
		require.NoError(t, repo.Create(ctx, r))
		require.NotEmpty(t, r.ID)
		assert.False(t, r.CreatedAt.IsZero())
		id := r.ID
		t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })
	}

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(ctx, runs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, repository.KindCalculate, got.Kind)
		assert.Equal(t, "hagedorn-brown", got.Method)
		require.NotNil(t, got.BottomholePressure)
		assert.InDelta(t, 3200, *got.BottomholePressure, 1e-9)
		assert.JSONEq(t, `{"bottomhole_pressure":3200}`, string(got.Result))
		assert.Equal(t, []string{tag}, got.Tags)
	})

	t.Run("get compare without bhp", func(t *testing.T) {
		got, err := repo.GetByID(ctx, runs[2].ID)
		require.NoError(t, err)
		assert.Nil(t, got.BottomholePressure)
		assert.Nil(t, got.PressureDrop)
	})

	t.Run("list by tag", func(t *testing.T) {
		list, total, err := repo.List(ctx, &repository.ListFilter{Tags: []string{tag}, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, list, 3)
	})

	t.Run("list by kind and method", func(t *testing.T) {
		list, total, err := repo.List(ctx, &repository.ListFilter{
			Kind:    repository.KindCalculate,
			Methods: []string{"gray"},
			Tags:    []string{tag},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, runs[1].ID, list[0].ID)
	})

	t.Run("stats", func(t *testing.T) {
		since := time.Now().Add(-time.Hour)
		st, err := repo.Stats(ctx, &since)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, st.TotalRuns, 3)
		assert.GreaterOrEqual(t, st.RunsByKind[repository.KindCalculate], 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, runs[2].ID))

		_, err := repo.GetByID(ctx, runs[2].ID)
		assert.True(t, errors.Is(err, repository.ErrRunNotFound))

		err = repo.Delete(ctx, runs[2].ID)
		assert.True(t, errors.Is(err, repository.ErrRunNotFound))
	})
}
