package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumper/pkg/config"
	"thumper/pkg/logger"
	"thumper/pkg/zoneclient"
)

func writeLocal(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func testConfig(root string) *config.SyncConfig {
	return &config.SyncConfig{
		Endpoint:    "storage.bunnycdn.com",
		AccessKey:   "key",
		LocalPath:   root,
		StorageZone: "myzone",
		Lockfile:    ".bunnysync.lock",
	}
}

func TestRunSyncFreshDeploy(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")
	writeLocal(t, root, "style.css", "body{}")

	client := zoneclient.NewFake()
	log := logger.New(nil, false)

	result, err := RunSync(context.Background(), testConfig(root), client, log)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Errors.Count())
	assert.Len(t, result.Plan.Uploads, 2)

	objects := client.Objects()
	assert.Contains(t, objects, "index.html")
	assert.Contains(t, objects, "style.css")

	// the lockfile is released once the run completes
	_, lockErr := client.Read(context.Background(), ".bunnysync.lock")
	assert.True(t, zoneclient.IsNotFound(lockErr))
}

func TestRunSyncNoOp(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed("index.html", []byte("<html></html>"))

	log := logger.New(nil, false)
	result, err := RunSync(context.Background(), testConfig(root), client, log)

	require.NoError(t, err)
	assert.Empty(t, result.Plan.Uploads)
	assert.Empty(t, result.Plan.Deletes)
}

func TestRunSyncSelectiveDelete(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed("index.html", []byte("<html></html>"))
	client.Seed("stale/old.txt", []byte("x"))

	log := logger.New(nil, false)
	result, err := RunSync(context.Background(), testConfig(root), client, log)

	require.NoError(t, err)
	assert.Len(t, result.Plan.Deletes, 1)
	assert.NotContains(t, client.Objects(), "stale/old.txt")
}

func TestRunSyncFailsWhenLockHeld(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed(".bunnysync.lock", []byte(`{"created_at":"2024-01-01T00:00:00Z","identity":"other"}`))

	log := logger.New(nil, false)
	_, err := RunSync(context.Background(), testConfig(root), client, log)

	assert.Error(t, err)
}

func TestRunSyncForceOverridesLock(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed(".bunnysync.lock", []byte(`{"created_at":"2024-01-01T00:00:00Z","identity":"other"}`))

	cfg := testConfig(root)
	cfg.Force = true

	log := logger.New(nil, false)
	result, err := RunSync(context.Background(), cfg, client, log)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Errors.Count())
}

func TestRunSyncDryRunDoesNotMutateZone(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed("stale.txt", []byte("x"))

	cfg := testConfig(root)
	cfg.DryRun = true

	log := logger.New(nil, false)
	result, err := RunSync(context.Background(), cfg, client, log)

	require.NoError(t, err)
	assert.Len(t, result.Plan.Uploads, 1)
	assert.Len(t, result.Plan.Deletes, 1)
	assert.Contains(t, client.Objects(), "stale.txt")
	assert.NotContains(t, client.Objects(), "index.html")

	// dry run never acquires the lock
	_, lockErr := client.Read(context.Background(), ".bunnysync.lock")
	assert.True(t, zoneclient.IsNotFound(lockErr))
}

func TestRunSyncSubPath(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, root, "index.html", "<html></html>")

	client := zoneclient.NewFake()
	client.Seed("other-zone-content.txt", []byte("untouched"))

	cfg := testConfig(root)
	cfg.TargetSubPath = "blog"

	log := logger.New(nil, false)
	result, err := RunSync(context.Background(), cfg, client, log)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Errors.Count())
	assert.Contains(t, client.Objects(), "blog/index.html")
	// content outside the target sub-path is never considered
	assert.Contains(t, client.Objects(), "other-zone-content.txt")
}
