package organizer

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"payloadvault/internal/config"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
	"payloadvault/internal/vault"
)

// HistoryPruner removes capture history rows for payload files the
// organizer deletes or moves. A nil pruner is a no-op.
type HistoryPruner interface {
	RemoveByFilename(ctx context.Context, filename string) error
}

// Organizer runs the startup maintenance passes over the payloads directory.
type Organizer struct {
	cfg     *config.Config
	logger  *slog.Logger
	history HistoryPruner
}

// New constructs an Organizer. history may be nil.
func New(cfg *config.Config, logger *slog.Logger, history HistoryPruner) *Organizer {
	return &Organizer{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "organizer"),
		history: history,
	}
}

// Startup runs the migration pass and, when enabled in configuration, the
// dedup pass. It never returns an error for individual files; only a
// missing or unreadable payloads directory aborts.
func (o *Organizer) Startup(ctx context.Context) error {
	if _, err := o.Migrate(ctx, false); err != nil {
		return err
	}
	if o.cfg.Organize.DedupeOnStartup {
		if _, err := o.Dedupe(ctx, false); err != nil {
			return err
		}
	}
	return nil
}

// listPayloadFiles returns regular payload filenames in the main directory,
// excluding the protected singletons.
func (o *Organizer) listPayloadFiles() ([]string, error) {
	entries, err := os.ReadDir(o.cfg.Paths.PayloadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !vault.IsPayloadFile(name) || vault.IsSingleton(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (o *Organizer) readPayload(name string) (map[string]any, error) {
	raw, err := os.ReadFile(filepath.Join(o.cfg.Paths.PayloadsDir, name))
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (o *Organizer) pruneHistory(ctx context.Context, logger *slog.Logger, filename string) {
	if o.history == nil {
		return
	}
	if err := o.history.RemoveByFilename(ctx, filename); err != nil {
		logger.Warn("failed to prune history row", logging.String("filename", filename), logging.Error(err))
	}
}

// modeForPayload derives the generation mode from the payload contents:
// presence of the input image field marks an img2img run.
func modeForPayload(data map[string]any) payload.Mode {
	if _, ok := data["init_images"]; ok {
		return payload.ModeImg2Img
	}
	return payload.ModeTxt2Img
}

func trimmedString(data map[string]any, key string) string {
	value, _ := data[key].(string)
	return strings.TrimSpace(value)
}
