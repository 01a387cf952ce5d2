//go:build integration

package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/require"
)

// GetTestRedisAddr returns the address of a Redis server usable by the test.
func GetTestRedisAddr(t *testing.T) string {
	t.Helper()

	if addr := os.Getenv("MAINT_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}

	p := newPool(t)
	resource, err := p.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start redis container")
	t.Cleanup(func() { _ = p.Purge(resource) })
	_ = resource.Expire(containerTTL)

	addr := resource.GetHostPort("6379/tcp")
	require.NoError(t, p.Retry(func() error {
		client, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{addr}, DisableCache: true})
		if err != nil {
			return err
		}
		defer client.Close()
		return client.Do(context.Background(), client.B().Ping().Build()).Error()
	}), "redis never became reachable")

	return addr
}
