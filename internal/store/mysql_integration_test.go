package store_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/petermazzocco/go-photo-gallery/internal/config"
	"github.com/petermazzocco/go-photo-gallery/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMySQLRoundTrip runs the adapters against a real MySQL started with
// dockertest. It is skipped in -short mode and when Docker is unreachable.
func TestMySQLRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=secret",
			"MYSQL_DATABASE=gallerydb",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	port, err := strconv.Atoi(resource.GetPort("3306/tcp"))
	require.NoError(t, err)
	cfg := config.Database{
		Driver:   "mysql",
		Host:     "127.0.0.1",
		Port:     port,
		User:     "root",
		Password: "secret",
		Name:     "gallerydb",
	}

	var db *gorm.DB
	if err := pool.Retry(func() error {
		var err error
		db, err = store.Open(cfg)
		return err
	}); err != nil {
		t.Fatalf("mysql not ready: %v", err)
	}

	ctx := context.Background()
	users := store.NewUserStore(db)
	alice, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = users.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	// Bypasses the pre-check so only the unique index can reject it.
	_, err = users.Create(ctx, "alice", "hash")
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	photos := store.NewPhotoStore(db)
	_, err = photos.Insert(ctx, alice.ID, "https://storage.googleapis.com/b/a.jpg", "a")
	require.NoError(t, err)
	list, err := photos.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://storage.googleapis.com/b/a.jpg", list[0].URL)
}
