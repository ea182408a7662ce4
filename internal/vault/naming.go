package vault

import (
	"regexp"
	"strings"
	"time"

	"payloadvault/internal/payload"
)

const (
	filePrefix         = "payload_"
	timestampLayout    = "20060102_150405"
	jsonExt            = ".json"
	LatestFileName     = "payload_latest.json"
	SingleSkeletonName = "payload_single_skeleton.json"
	SweepSkeletonName  = "payload_xyz_skeleton.json"
)

var timestampPattern = regexp.MustCompile(`\d{8}_\d{6}`)

// FileName builds the canonical save filename for a payload.
func FileName(mode payload.Mode, tag string, ts time.Time) string {
	return RebuildFileName(mode, tag, ts.Format(timestampLayout))
}

// RebuildFileName rebuilds a canonical filename from an existing timestamp
// segment, used when migrating legacy filenames.
func RebuildFileName(mode payload.Mode, tag, timestampSegment string) string {
	parts := []string{strings.TrimSuffix(filePrefix, "_"), string(mode)}
	if tag != "" {
		parts = append(parts, tag)
	}
	parts = append(parts, timestampSegment)
	return strings.Join(parts, "_") + jsonExt
}

// SkeletonName returns the skeleton singleton filename for a payload's
// sweep-vs-plain category.
func SkeletonName(data map[string]any) string {
	if payload.IsSweep(data) {
		return SweepSkeletonName
	}
	return SingleSkeletonName
}

// IsSingleton reports whether name is one of the protected mutable files
// that organize and dedup passes must never touch.
func IsSingleton(name string) bool {
	switch name {
	case LatestFileName, SingleSkeletonName, SweepSkeletonName:
		return true
	default:
		return false
	}
}

// IsPayloadFile reports whether name looks like a saved payload.
func IsPayloadFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, jsonExt)
}

// TimestampSegment extracts the YYYYMMDD_HHMMSS portion of a filename for
// recency ordering. Files without one sort before any timestamped file.
func TimestampSegment(name string) string {
	if match := timestampPattern.FindString(name); match != "" {
		return match
	}
	return "0"
}

// HasModeSegment reports whether the filename already follows the
// mode-qualified naming scheme.
func HasModeSegment(name string) bool {
	rest := strings.TrimPrefix(name, filePrefix)
	return strings.HasPrefix(rest, string(payload.ModeTxt2Img)+"_") ||
		strings.HasPrefix(rest, string(payload.ModeImg2Img)+"_")
}
