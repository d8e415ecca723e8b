package di

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-scribe/internal/runtimeconfig"
	"github.com/goliatone/go-scribe/internal/storage"
)

func sqliteConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageProviderBun
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = fmt.Sprintf("file:container_storage_%d?mode=memory&cache=shared", time.Now().UnixNano())
	return cfg
}

func TestContainer_BunStorage(t *testing.T) {
	container, err := NewContainer(sqliteConfig(t))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.bunDB == nil {
		t.Fatal("expected bunDB to be initialised")
	}
	if _, ok := container.store.(*storage.BunStore); !ok {
		t.Fatalf("expected bun store, got %T", container.store)
	}
	if container.cacheService != nil {
		t.Fatal("expected cache to stay disabled by default")
	}

	ctx := context.Background()
	project, err := container.WorkspaceService().CreateProject(ctx, "Persisted")
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
	loaded, err := container.WorkspaceService().GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject returned error: %v", err)
	}
	if loaded.Title != "Persisted" {
		t.Fatalf("expected persisted title, got %q", loaded.Title)
	}
}

func TestContainer_BunStorageWithCache(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = time.Minute

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.cacheService == nil || container.keySerializer == nil {
		t.Fatal("expected repository cache to be configured")
	}

	ctx := context.Background()
	project, err := container.WorkspaceService().CreateProject(ctx, "Cached")
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
	if _, err := container.WorkspaceService().RenameProject(ctx, project.ID, "Renamed"); err != nil {
		t.Fatalf("RenameProject returned error: %v", err)
	}
	loaded, err := container.WorkspaceService().GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject returned error: %v", err)
	}
	if loaded.Title != "Renamed" {
		t.Fatalf("expected cache to reflect rename, got %q", loaded.Title)
	}
}

func TestContainer_CloseIsIdempotent(t *testing.T) {
	container, err := NewContainer(sqliteConfig(t))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	if err := container.bunDB.PingContext(context.Background()); err == nil {
		t.Fatal("expected closed database")
	}
}

func TestContainer_InjectedBunDBStaysOpen(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := storage.OpenDB(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		t.Fatalf("OpenDB returned error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	container, err := NewContainer(cfg, WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("expected injected database to stay open, got %v", err)
	}
}

func TestContainer_BunStorageOpenFailure(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageProviderBun
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = "file:/nonexistent-dir/scribe.db?mode=ro"

	_, err := NewContainer(cfg)
	if err == nil {
		t.Fatal("expected storage error")
	}
	if errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected open or migrate failure, got %v", err)
	}
}
