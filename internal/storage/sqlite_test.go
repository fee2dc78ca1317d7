package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/keepsake/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "keepsake.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rec := &models.Record{
		ID:                "rec1",
		Title:             "Picnic",
		Caption:           "A sunny afternoon in the park",
		ImageCount:        3,
		Location:          "Regent's Park",
		Tags:              []string{"summer", "park"},
		RecommendedLayout: models.TemplatePhotoAlbum,
		Decorations:       `{"elements":[],"theme":"daily","mood":"heartwarming"}`,
	}
	if err := store.CreateRecord(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetRecord(ctx, "rec1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Picnic" || got.ImageCount != 3 || got.RecommendedLayout != models.TemplatePhotoAlbum {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"summer", "park"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Decorations != rec.Decorations {
		t.Errorf("decorations = %q", got.Decorations)
	}

	rec.Title = "Updated"
	if err := store.UpdateRecord(ctx, rec); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetRecord(ctx, "rec1")
	if got.Title != "Updated" {
		t.Errorf("expected Updated, got %s", got.Title)
	}

	if err := store.UpdateComposition(ctx, "rec1", models.TemplateCollage, "blob"); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetRecord(ctx, "rec1")
	if got.RecommendedLayout != models.TemplateCollage || got.Decorations != "blob" || got.Title != "Updated" {
		t.Errorf("after UpdateComposition got %+v", got)
	}

	list, err := store.ListRecords(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 record, got %d", len(list))
	}

	if err := store.DeleteRecord(ctx, "rec1"); err != nil {
		t.Fatal(err)
	}
	_, err = store.GetRecord(ctx, "rec1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_MissingRecord(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if err := store.UpdateRecord(ctx, &models.Record{ID: "nope", Caption: "c"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRecord: %v", err)
	}
	if err := store.UpdateComposition(ctx, "nope", models.TemplateCollage, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateComposition: %v", err)
	}
	if err := store.DeleteRecord(ctx, "nope"); err != nil {
		t.Errorf("DeleteRecord of a missing record should succeed, got %v", err)
	}
}

func TestSQLiteStorage_ListAndCount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	n, err := store.CountRecords(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountRecords: %v, %d", err, n)
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := store.CreateRecord(ctx, &models.Record{ID: id, Caption: "caption " + id}); err != nil {
			t.Fatal(err)
		}
	}
	n, _ = store.CountRecords(ctx)
	if n != 3 {
		t.Errorf("expected 3 records, got %d", n)
	}
	page, err := store.ListRecords(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 {
		t.Errorf("expected a page of 1, got %d", len(page))
	}
	got, _ := store.GetRecord(ctx, "a")
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("records without tags should load an empty list, got %#v", got.Tags)
	}
}
