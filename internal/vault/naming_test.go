package vault

import (
	"testing"
	"time"

	"payloadvault/internal/payload"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	cases := []struct {
		mode payload.Mode
		tag  string
		want string
	}{
		{payload.ModeTxt2Img, "", "payload_txt2img_20260314_150926.json"},
		{payload.ModeTxt2Img, "xyz", "payload_txt2img_xyz_20260314_150926.json"},
		{payload.ModeImg2Img, "cnet_xyz", "payload_img2img_cnet_xyz_20260314_150926.json"},
	}
	for _, tc := range cases {
		if got := FileName(tc.mode, tc.tag, ts); got != tc.want {
			t.Errorf("FileName(%s, %q) = %q, want %q", tc.mode, tc.tag, got, tc.want)
		}
	}
}

func TestIsSingleton(t *testing.T) {
	for _, name := range []string{LatestFileName, SingleSkeletonName, SweepSkeletonName} {
		if !IsSingleton(name) {
			t.Errorf("expected %q to be protected", name)
		}
	}
	if IsSingleton("payload_txt2img_20260314_150926.json") {
		t.Error("regular save treated as singleton")
	}
}

func TestTimestampSegment(t *testing.T) {
	if got := TimestampSegment("payload_txt2img_xyz_20260314_150926.json"); got != "20260314_150926" {
		t.Fatalf("TimestampSegment = %q", got)
	}
	if got := TimestampSegment("payload_odd.json"); got != "0" {
		t.Fatalf("expected sentinel for missing timestamp, got %q", got)
	}
}

func TestHasModeSegment(t *testing.T) {
	if !HasModeSegment("payload_txt2img_20260314_150926.json") {
		t.Error("txt2img filename not recognized")
	}
	if !HasModeSegment("payload_img2img_cnet_20260314_150926.json") {
		t.Error("img2img filename not recognized")
	}
	if HasModeSegment("payload_20260314_150926_xyz.json") {
		t.Error("legacy filename misread as mode-qualified")
	}
}

func TestSkeletonName(t *testing.T) {
	if got := SkeletonName(map[string]any{"script_name": "x/y/z plot"}); got != SweepSkeletonName {
		t.Fatalf("SkeletonName(sweep) = %q", got)
	}
	if got := SkeletonName(map[string]any{}); got != SingleSkeletonName {
		t.Fatalf("SkeletonName(plain) = %q", got)
	}
}
