package vault

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"payloadvault/internal/config"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
)

func testWriter(t *testing.T) (*Writer, *config.Config, *time.Time) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.PayloadsDir = filepath.Join(t.TempDir(), "payloads")

	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	w := NewWriter(&cfg, logging.NewNop())
	w.clock = func() time.Time { return now }
	return w, &cfg, &now
}

func sweepPayload() map[string]any {
	return map[string]any{
		"enable_hr":   true,
		"prompt":      "a cat",
		"seed":        int64(1234),
		"script_name": "x/y/z plot",
	}
}

func TestSaveDraftRouting(t *testing.T) {
	w, cfg, _ := testWriter(t)
	data := sweepPayload()
	data["enable_hr"] = false

	res, err := w.Save(context.Background(), payload.ModeTxt2Img, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Draft {
		t.Fatal("expected draft routing")
	}
	if res.Tag != "" {
		t.Fatalf("drafts must be untagged, got %q", res.Tag)
	}
	if filepath.Dir(res.Path) != cfg.DraftsDir() {
		t.Fatalf("payload not in drafts: %s", res.Path)
	}
	if strings.Contains(res.Filename, "xyz") {
		t.Fatalf("draft filename carries tag: %s", res.Filename)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.PayloadsDir, LatestFileName)); !os.IsNotExist(err) {
		t.Fatal("draft save must not refresh latest snapshot")
	}
}

func TestSaveHighResWritesTagAndSnapshots(t *testing.T) {
	w, cfg, _ := testWriter(t)

	res, err := w.Save(context.Background(), payload.ModeTxt2Img, sweepPayload(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Draft {
		t.Fatal("high-res payload routed to drafts")
	}
	if res.Tag != "xyz" {
		t.Fatalf("unexpected tag %q", res.Tag)
	}
	if res.Filename != "payload_txt2img_xyz_20260314_150926.json" {
		t.Fatalf("unexpected filename %s", res.Filename)
	}

	latest, err := os.ReadFile(filepath.Join(cfg.Paths.PayloadsDir, LatestFileName))
	if err != nil {
		t.Fatalf("latest snapshot missing: %v", err)
	}
	saved, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(latest) != string(saved) {
		t.Fatal("latest snapshot diverges from save")
	}

	raw, err := os.ReadFile(filepath.Join(cfg.Paths.PayloadsDir, SweepSkeletonName))
	if err != nil {
		t.Fatalf("skeleton missing: %v", err)
	}
	var skeleton map[string]any
	if err := json.Unmarshal(raw, &skeleton); err != nil {
		t.Fatal(err)
	}
	if skeleton["prompt"] != "" {
		t.Fatalf("skeleton prompt not cleared: %#v", skeleton["prompt"])
	}
	if skeleton["seed"] != float64(-1) {
		t.Fatalf("skeleton seed not reset: %#v", skeleton["seed"])
	}
}

func TestSavePlainPayloadUsesSingleSkeleton(t *testing.T) {
	w, cfg, _ := testWriter(t)
	data := sweepPayload()
	data["script_name"] = nil

	if _, err := w.Save(context.Background(), payload.ModeTxt2Img, data, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.PayloadsDir, SingleSkeletonName)); err != nil {
		t.Fatalf("single skeleton missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.PayloadsDir, SweepSkeletonName)); !os.IsNotExist(err) {
		t.Fatal("sweep skeleton written for plain payload")
	}
}

func TestSaveDedupWindow(t *testing.T) {
	w, cfg, now := testWriter(t)
	state := &DedupState{}

	first, err := w.Save(context.Background(), payload.ModeTxt2Img, sweepPayload(), state)
	if err != nil || first.Skipped {
		t.Fatalf("first save failed: %v skipped=%v", err, first != nil && first.Skipped)
	}

	*now = now.Add(1 * time.Second)
	second, err := w.Save(context.Background(), payload.ModeTxt2Img, sweepPayload(), state)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Skipped {
		t.Fatal("identical payload inside window was not skipped")
	}

	*now = now.Add(3 * time.Second)
	third, err := w.Save(context.Background(), payload.ModeTxt2Img, sweepPayload(), state)
	if err != nil {
		t.Fatal(err)
	}
	if third.Skipped {
		t.Fatal("payload outside window was skipped")
	}

	entries := payloadFiles(t, cfg.Paths.PayloadsDir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 saved files, got %d: %v", len(entries), entries)
	}
}

func TestSaveDifferentPayloadInsideWindowIsKept(t *testing.T) {
	w, cfg, now := testWriter(t)
	state := &DedupState{}

	if _, err := w.Save(context.Background(), payload.ModeTxt2Img, sweepPayload(), state); err != nil {
		t.Fatal(err)
	}

	*now = now.Add(1 * time.Second)
	changed := sweepPayload()
	changed["prompt"] = "a different cat"
	res, err := w.Save(context.Background(), payload.ModeTxt2Img, changed, state)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped {
		t.Fatal("distinct payload was deduplicated")
	}
	if got := payloadFiles(t, cfg.Paths.PayloadsDir); len(got) != 2 {
		t.Fatalf("expected 2 saved files, got %v", got)
	}
}

func payloadFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || IsSingleton(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}
