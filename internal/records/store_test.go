package records_test

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"keepsake/internal/records"
	"keepsake/internal/testsupport"
)

func TestSaveRoundTripsAllFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := records.NewRecord("Vase", testsupport.CaptureImages(), "data:image/jpeg;base64,dGh1bWI=")
	record.Status = records.StatusReady
	record.OperationID = "op-42"
	record.WorldID = "world-42"
	record.PrimaryAsset = []byte("splat-bytes")
	record.ColliderAsset = []byte("mesh-bytes")
	record.Edits = &records.SceneEdits{
		Objects: []records.PlacedObject{{
			ID:       "obj-1",
			Kind:     records.ObjectKindGLTF,
			URL:      "https://assets.example/lamp.glb",
			Position: records.Vec3{1, 0, -2},
			Scale:    records.Vec3{1, 1, 1},
		}},
		Masks: []records.MaskVolume{{
			ID:      "mask-1",
			Shape:   records.MaskShapeBox,
			Size:    records.Vec3{2, 2, 2},
			Enabled: true,
		}},
	}

	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected record, got nil")
	}
	if fetched.Name != "Vase" || fetched.Status != records.StatusReady {
		t.Fatalf("unexpected record: %#v", fetched)
	}
	if fetched.OperationID != "op-42" || fetched.WorldID != "world-42" {
		t.Fatalf("identifiers lost: %#v", fetched)
	}
	if !bytes.Equal(fetched.PrimaryAsset, []byte("splat-bytes")) {
		t.Fatal("primary asset lost")
	}
	if !bytes.Equal(fetched.ColliderAsset, []byte("mesh-bytes")) {
		t.Fatal("collider asset lost")
	}
	if len(fetched.Images) != records.CaptureImageCount {
		t.Fatalf("expected %d images, got %d", records.CaptureImageCount, len(fetched.Images))
	}
	for i, image := range fetched.Images {
		if !bytes.Equal(image, record.Images[i]) {
			t.Fatalf("image %d differs", i)
		}
	}
	if fetched.Edits == nil || len(fetched.Edits.Objects) != 1 || len(fetched.Edits.Masks) != 1 {
		t.Fatalf("edits lost: %#v", fetched.Edits)
	}
	if fetched.Edits.Objects[0].Position != (records.Vec3{1, 0, -2}) {
		t.Fatalf("object position lost: %#v", fetched.Edits.Objects[0])
	}
	if !fetched.CreatedAt.Equal(record.CreatedAt) {
		t.Fatalf("created_at drifted: %v vs %v", fetched.CreatedAt, record.CreatedAt)
	}
}

func TestSaveUpsertIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := testsupport.NewDraftRecord(t, store, "First Name")

	record.Name = "Second Name"
	record.Status = records.StatusError
	record.Error = "submission failed"
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(all))
	}
	if all[0].Name != "Second Name" || all[0].Status != records.StatusError {
		t.Fatalf("expected second write to win: %#v", all[0])
	}
	if all[0].Error != "submission failed" {
		t.Fatalf("error message lost: %q", all[0].Error)
	}
	if len(all[0].Images) != records.CaptureImageCount {
		t.Fatalf("images not preserved across replacement: %d", len(all[0].Images))
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	record, err := store.GetByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for missing record, got %#v", record)
	}
}

func TestDeleteRemovesRecordAndImages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := testsupport.NewDraftRecord(t, store, "Doomed")

	removed, err := store.Delete(ctx, record.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Fatal("expected Delete to report removal")
	}

	fetched, err := store.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched != nil {
		t.Fatalf("record still present after delete: %#v", fetched)
	}

	removed, err = store.Delete(ctx, record.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if removed {
		t.Fatal("expected second Delete to be a no-op")
	}
}

func TestGetAllOrdersByCreation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := records.NewRecord("First", nil, "")
	second := records.NewRecord("Second", nil, "")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	for _, record := range []*records.Record{second, first} {
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].Name != "First" || all[1].Name != "Second" {
		t.Fatalf("unexpected order: %s, %s", all[0].Name, all[1].Name)
	}
}

func TestCountByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewDraftRecord(t, store, "Draft A")
	testsupport.NewDraftRecord(t, store, "Draft B")
	failed := testsupport.NewDraftRecord(t, store, "Failed")
	failed.SetFailed("remote rejected the job")
	if err := store.Save(ctx, failed); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stats, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if stats[records.StatusDraft] != 2 || stats[records.StatusError] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestGetByIDRejectsMalformedCreatedAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := testsupport.NewDraftRecord(t, store, "Corrupt")

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx,
		`UPDATE records SET created_at = 'not-a-timestamp' WHERE id = ?`, record.ID,
	); err != nil {
		t.Fatalf("corrupt created_at: %v", err)
	}

	if _, err := store.GetByID(ctx, record.ID); err == nil ||
		!strings.Contains(err.Error(), "created_at") {
		t.Fatalf("expected created_at parse error, got %v", err)
	}
}
