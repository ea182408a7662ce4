package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"payloadvault/internal/config"
	"payloadvault/internal/fileutil"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
	"payloadvault/internal/services"
)

// DedupState carries the fingerprint of the previous save so a repeated
// host callback for the same run is written once. The host-facing adapter
// owns one instance and passes it into every Save.
type DedupState struct {
	LastHash string
	LastSave time.Time
}

// Result describes where a payload landed.
type Result struct {
	Path     string
	Filename string
	Tag      string
	Draft    bool
	// Skipped is set when the save was suppressed by the dedup window.
	Skipped bool
}

// Writer persists payloads according to the naming and routing scheme.
type Writer struct {
	cfg    *config.Config
	logger *slog.Logger
	clock  func() time.Time
}

// NewWriter constructs a Writer for the configured payloads directory.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "vault"),
		clock:  time.Now,
	}
}

// SetClock overrides the Writer's time source. Tests use it to step
// through the dedup window deterministically.
func (w *Writer) SetClock(clock func() time.Time) {
	if clock != nil {
		w.clock = clock
	}
}

// Save persists a normalized payload. High-res payloads land in the main
// directory with their tag and refresh the latest and skeleton snapshots;
// everything else goes untagged into drafts. An identical payload saved
// within the dedup window is skipped.
func (w *Writer) Save(ctx context.Context, mode payload.Mode, data map[string]any, state *DedupState) (*Result, error) {
	if w.cfg == nil || strings.TrimSpace(w.cfg.Paths.PayloadsDir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vault", "resolve payloads dir", "payloads directory not configured", nil)
	}
	logger := logging.WithContext(ctx, w.logger)

	encoded, err := payload.Encode(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "vault", "encode payload", "payload not JSON encodable", err)
	}

	now := w.clock()
	hash := contentHash(encoded)
	window := time.Duration(w.cfg.Capture.DedupWindowSeconds) * time.Second
	if state != nil && state.LastHash == hash && now.Sub(state.LastSave) < window {
		logger.Debug("skipping duplicate save",
			logging.String("hash", hash[:12]),
			logging.Duration("since_last", now.Sub(state.LastSave)),
		)
		return &Result{Skipped: true}, nil
	}

	enableHR, _ := data["enable_hr"].(bool)
	dir := w.cfg.Paths.PayloadsDir
	tag := ""
	if enableHR {
		tag = payload.Tag(data)
	} else {
		dir = w.cfg.DraftsDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "vault", "ensure save dir", "could not create payload directory", err)
	}

	filename := FileName(mode, tag, now)
	path := filepath.Join(dir, filename)
	if err := fileutil.WriteFileAtomic(path, encoded, 0o644); err != nil {
		return nil, services.Wrap(services.ErrTransient, "vault", "write payload", "could not write payload file", err)
	}

	if enableHR {
		w.writeSnapshots(logger, data, encoded)
	}

	if state != nil {
		state.LastHash = hash
		state.LastSave = now
	}

	logger.Info("saved payload",
		logging.String("filename", filename),
		logging.Bool("draft", !enableHR),
		logging.String("tag", tag),
	)
	return &Result{
		Path:     path,
		Filename: filename,
		Tag:      tag,
		Draft:    !enableHR,
	}, nil
}

// writeSnapshots refreshes the mutable singleton files. Failures are logged
// and ignored; the primary save already succeeded.
func (w *Writer) writeSnapshots(logger *slog.Logger, data map[string]any, encoded []byte) {
	if w.cfg.Capture.WriteLatest {
		latest := filepath.Join(w.cfg.Paths.PayloadsDir, LatestFileName)
		if err := fileutil.WriteFileAtomic(latest, encoded, 0o644); err != nil {
			logger.Warn("failed to update latest snapshot", logging.Error(err))
		}
	}
	if !w.cfg.Capture.WriteSkeletons {
		return
	}
	skeleton, err := payload.Encode(Skeleton(data))
	if err != nil {
		logger.Warn("failed to encode skeleton", logging.Error(err))
		return
	}
	path := filepath.Join(w.cfg.Paths.PayloadsDir, SkeletonName(data))
	if err := fileutil.WriteFileAtomic(path, skeleton, 0o644); err != nil {
		logger.Warn("failed to update skeleton snapshot", logging.Error(err))
	}
}

// Skeleton returns a copy of the payload reusable as a template: prompt
// cleared and seed reset to -1.
func Skeleton(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	out["prompt"] = ""
	out["seed"] = int64(-1)
	return out
}

func contentHash(encoded []byte) string {
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
