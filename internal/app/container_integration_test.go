//go:build integration

package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/app"
	"service-delivery/internal/config"
	"service-delivery/internal/repository"
)

func TestMustBuildContainer_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := app.NewContainerBuilder().
		WithConfigLoader(func() (*config.Config, error) { return config.LoadArgs(nil) }).
		MustBuild(ctx)
	require.NotNil(t, c)

	err := c.Invoke(func(cfg *config.Config, pool *pgxpool.Pool, caps *repository.Capabilities) {
		require.NotNil(t, cfg)
		require.NotNil(t, pool)
		require.NotNil(t, caps)
		pool.Close()
	})
	require.NoError(t, err)
}
