package testsupport

import (
	"context"
	"fmt"
	"testing"

	"keepsake/internal/config"
	"keepsake/internal/records"
)

// MustOpenStore opens a records.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *records.Store {
	t.Helper()

	store, err := records.Open(cfg)
	if err != nil {
		t.Fatalf("records.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewDraftRecord creates and persists a draft record with a full synthetic
// capture set.
func NewDraftRecord(t testing.TB, store *records.Store, name string) *records.Record {
	t.Helper()

	record := records.NewRecord(name, CaptureImages(), "data:image/jpeg;base64,dGh1bWI=")
	if err := store.Save(context.Background(), record); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return record
}

// CaptureImages returns a synthetic capture set of the fixed cardinality.
func CaptureImages() [][]byte {
	images := make([][]byte, records.CaptureImageCount)
	for i := range images {
		images[i] = []byte(fmt.Sprintf("jpeg-frame-%02d", i))
	}
	return images
}
