package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"payloadvault/internal/config"
	"payloadvault/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	for i, filename := range []string{
		"payload_txt2img_20260314_150000.json",
		"payload_txt2img_xyz_20260314_150100.json",
		"payload_img2img_20260314_150200.json",
	} {
		capture := &history.Capture{
			RunID:     "run-" + filename,
			Mode:      "txt2img",
			Filename:  filename,
			Prompt:    "a cat",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(ctx, capture); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if capture.ID == 0 {
			t.Fatal("expected capture ID to be assigned")
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(recent))
	}
	if recent[0].Filename != "payload_img2img_20260314_150200.json" {
		t.Fatalf("expected newest first, got %s", recent[0].Filename)
	}
}

func TestRemoveByFilename(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	capture := &history.Capture{
		RunID:    "run-1",
		Mode:     "txt2img",
		Filename: "payload_txt2img_20260314_150000.json",
	}
	if err := store.Record(ctx, capture); err != nil {
		t.Fatal(err)
	}

	if err := store.RemoveByFilename(ctx, capture.Filename); err != nil {
		t.Fatalf("RemoveByFilename failed: %v", err)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(recent))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	first, err := history.Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_ = second.Close()
}
