//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	postgresImage = "postgres"
	postgresTag   = "16-alpine"

	// containerTTL is a hard stop in case cleanup never runs.
	containerTTL = 180

	startupTimeout = 2 * time.Minute
)

// GetTestDatabaseURL returns the externally provided database URL, if any.
func GetTestDatabaseURL() string {
	return os.Getenv("MAINT_TEST_DATABASE_URL")
}

// GetTestDBWithT returns a migrated database handle. The container (if one was
// started) and the connection are released when the test finishes.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		dbURL = startPostgres(t)
	}

	var db *sql.DB
	var err error
	require.NoError(t, retry(func() error {
		db, err = sql.Open("pgx", dbURL)
		if err != nil {
			return err
		}
		return db.Ping()
	}), "database never became reachable")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil), "failed to apply migrations")

	return db
}

func startPostgres(t *testing.T) string {
	t.Helper()

	p := newPool(t)
	resource, err := p.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=maint",
			"POSTGRES_PASSWORD=maint",
			"POSTGRES_DB=maint_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start postgres container")
	t.Cleanup(func() { _ = p.Purge(resource) })
	_ = resource.Expire(containerTTL)

	return fmt.Sprintf("postgres://maint:maint@%s/maint_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))
}

// pool is shared by the helpers in this package; Retry uses its MaxWait.
var pool *dockertest.Pool

func newPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	if pool != nil {
		return pool
	}

	p, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err := p.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}
	p.MaxWait = startupTimeout
	pool = p
	return p
}

// retry polls op until it succeeds, using the dockertest backoff when a pool exists.
func retry(op func() error) error {
	if pool != nil {
		return pool.Retry(op)
	}
	return op()
}
