package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-docsync/internal/identity"
	"github.com/goliatone/go-docsync/pkg/interfaces"
	"github.com/goliatone/go-docsync/pkg/testsupport"
)

type storeFactory func(t *testing.T) interfaces.DocumentStore

func storeFactories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(*testing.T) interfaces.DocumentStore {
			return NewMemoryStore()
		},
		"bun": func(t *testing.T) interfaces.DocumentStore {
			db := testsupport.NewBunDB(t)
			if err := CreateSchema(context.Background(), db); err != nil {
				t.Fatalf("create schema: %v", err)
			}
			return NewBunStore(db)
		},
		"bun_cached": func(t *testing.T) interfaces.DocumentStore {
			db := testsupport.NewBunDB(t)
			if err := CreateSchema(context.Background(), db); err != nil {
				t.Fatalf("create schema: %v", err)
			}
			cfg := repocache.DefaultConfig()
			cfg.TTL = time.Minute
			svc, err := repocache.NewCacheService(cfg)
			if err != nil {
				t.Fatalf("new cache service: %v", err)
			}
			return NewBunStoreWithCache(db, svc, repocache.NewDefaultKeySerializer())
		},
	}
}

func doc(path, title, body, hash string, order int) *interfaces.Document {
	return &interfaces.Document{
		Path:        path,
		Title:       title,
		ContentRaw:  body,
		ContentHTML: "<p>" + body + "</p>",
		ContentHash: hash,
		Order:       order,
	}
}

func TestStore_UpsertAndFind(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			desc := "Getting started"
			input := doc("installation", "Installation", "Install it", "h1", 0)
			input.Description = &desc

			created, err := store.Upsert(ctx, input)
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if created.ID != identity.DocumentUUID("installation") {
				t.Fatalf("expected deterministic id, got %s", created.ID)
			}
			if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
				t.Fatalf("expected timestamps to be set")
			}

			found, err := store.FindByPath(ctx, "installation")
			if err != nil {
				t.Fatalf("find by path: %v", err)
			}
			if found.Title != "Installation" || found.ContentHTML != "<p>Install it</p>" {
				t.Fatalf("unexpected document %+v", found)
			}
			if found.Description == nil || *found.Description != desc {
				t.Fatalf("expected description %q, got %v", desc, found.Description)
			}

			byHash, err := store.FindByHash(ctx, "h1")
			if err != nil {
				t.Fatalf("find by hash: %v", err)
			}
			if byHash.Path != "installation" {
				t.Fatalf("expected installation, got %s", byHash.Path)
			}
		})
	}
}

func TestStore_UpsertReplacesByPath(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			first, err := store.Upsert(ctx, doc("forms/intro", "Intro", "v1", "h1", 0))
			if err != nil {
				t.Fatalf("first upsert: %v", err)
			}
			second, err := store.Upsert(ctx, doc("forms/intro", "Intro v2", "v2", "h2", 3))
			if err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			if first.ID != second.ID {
				t.Fatalf("expected id to survive update: %s != %s", first.ID, second.ID)
			}

			docs, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(docs) != 1 {
				t.Fatalf("expected one document, got %d", len(docs))
			}
			if docs[0].ContentRaw != "v2" || docs[0].ContentHash != "h2" || docs[0].Order != 3 {
				t.Fatalf("expected updated document, got %+v", docs[0])
			}
			if _, err := store.FindByHash(ctx, "h1"); !IsNotFound(err) {
				t.Fatalf("expected old hash to be gone, got %v", err)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			_, err := store.FindByPath(ctx, "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
				t.Fatalf("expected not found category, got %v", err)
			}
			if _, err := store.FindByHash(ctx, ""); !IsNotFound(err) {
				t.Fatalf("expected empty hash to miss, got %v", err)
			}
		})
	}
}

func TestStore_ListOrdering(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			for _, d := range []*interfaces.Document{
				doc("tables/columns", "Columns", "x", "a", 2),
				doc("installation", "Installation", "x", "b", 0),
				doc("forms/intro", "Intro", "x", "c", 1),
				doc("admin", "Admin", "x", "d", 0),
			} {
				if _, err := store.Upsert(ctx, d); err != nil {
					t.Fatalf("upsert %s: %v", d.Path, err)
				}
			}

			docs, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := make([]string, 0, len(docs))
			for _, d := range docs {
				got = append(got, d.Path)
			}
			want := []string{"admin", "installation", "forms/intro", "tables/columns"}
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestStore_Search(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			for _, d := range []*interfaces.Document{
				doc("forms/fields/text-input", "Text Input", "Use the TextInput component", "a", 0),
				doc("forms/fields/select", "Select", "Options for a dropdown", "b", 0),
				doc("tables/columns/text", "Text column", "Display text", "c", 0),
				doc("percent", "Percent", "Matches 100% literally", "d", 0),
			} {
				if _, err := store.Upsert(ctx, d); err != nil {
					t.Fatalf("upsert %s: %v", d.Path, err)
				}
			}

			hits, err := store.Search(ctx, "TEXT", 10)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(hits) != 2 || hits[0].Path != "forms/fields/text-input" || hits[1].Path != "tables/columns/text" {
				t.Fatalf("unexpected hits %+v", hits)
			}

			hits, err = store.Search(ctx, "dropdown", 10)
			if err != nil {
				t.Fatalf("search content: %v", err)
			}
			if len(hits) != 1 || hits[0].Path != "forms/fields/select" {
				t.Fatalf("expected content match, got %+v", hits)
			}

			hits, err = store.Search(ctx, "text", 1)
			if err != nil {
				t.Fatalf("search limit: %v", err)
			}
			if len(hits) != 1 {
				t.Fatalf("expected limit to cap results, got %d", len(hits))
			}

			hits, err = store.Search(ctx, "0%", 10)
			if err != nil {
				t.Fatalf("search wildcard: %v", err)
			}
			if len(hits) != 1 || hits[0].Path != "percent" {
				t.Fatalf("expected literal percent match, got %+v", hits)
			}

			hits, err = store.Search(ctx, "  ", 10)
			if err != nil || len(hits) != 0 {
				t.Fatalf("expected empty result for blank query, got %v %v", hits, err)
			}
		})
	}
}

func TestStore_DeleteAll(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			for _, p := range []string{"a", "b", "c"} {
				if _, err := store.Upsert(ctx, doc(p, p, p, p, 0)); err != nil {
					t.Fatalf("upsert: %v", err)
				}
			}
			deleted, err := store.DeleteAll(ctx)
			if err != nil {
				t.Fatalf("delete all: %v", err)
			}
			if deleted != 3 {
				t.Fatalf("expected 3 deletions, got %d", deleted)
			}
			docs, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(docs) != 0 {
				t.Fatalf("expected empty store, got %d", len(docs))
			}
		})
	}
}

func TestStore_ReadsFollowWrites(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			if _, err := store.Upsert(ctx, doc("forms/select", "Select", "v1", "h1", 0)); err != nil {
				t.Fatalf("first upsert: %v", err)
			}
			found, err := store.FindByPath(ctx, "forms/select")
			if err != nil || found.ContentRaw != "v1" {
				t.Fatalf("expected v1, got %+v %v", found, err)
			}

			if _, err := store.Upsert(ctx, doc("forms/select", "Select", "v2", "h2", 0)); err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			found, err = store.FindByPath(ctx, "forms/select")
			if err != nil {
				t.Fatalf("find after update: %v", err)
			}
			if found.ContentRaw != "v2" || found.ContentHash != "h2" || found.ContentHTML != "<p>v2</p>" {
				t.Fatalf("expected updated document, got raw=%q hash=%q", found.ContentRaw, found.ContentHash)
			}

			if _, err := store.DeleteAll(ctx); err != nil {
				t.Fatalf("delete all: %v", err)
			}
			if found, err := store.FindByPath(ctx, "forms/select"); !IsNotFound(err) {
				t.Fatalf("expected deleted document to be gone, got %+v %v", found, err)
			}
		})
	}
}

func TestStore_UpsertRequiresPath(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			if _, err := factory(t).Upsert(context.Background(), doc(" ", "x", "x", "x", 0)); !errors.Is(err, ErrPathRequired) {
				t.Fatalf("expected ErrPathRequired, got %v", err)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if _, err := store.Upsert(ctx, doc("a", "A", "body", "h", 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	found, _ := store.FindByPath(ctx, "a")
	found.Title = "mutated"

	again, _ := store.FindByPath(ctx, "a")
	if again.Title != "A" {
		t.Fatalf("expected stored copy to be isolated, got %q", again.Title)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(OpenOptions{Driver: "mongo"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(OpenOptions{Driver: DriverPostgres}); err == nil {
		t.Fatalf("expected postgres without dsn to fail")
	}
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(OpenOptions{Driver: DriverSQLite, DSN: "file:open_test?mode=memory&cache=shared", Debug: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("schema creation should be repeatable: %v", err)
	}
}
