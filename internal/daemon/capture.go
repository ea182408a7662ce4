package daemon

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"payloadvault/internal/config"
	"payloadvault/internal/history"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
	"payloadvault/internal/vault"
)

// CaptureOutcome summarizes what happened to one run snapshot.
type CaptureOutcome struct {
	RunID    string `json:"run_id"`
	Saved    bool   `json:"saved"`
	Skipped  bool   `json:"skipped"`
	Failed   bool   `json:"failed"`
	Filename string `json:"filename,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Draft    bool   `json:"draft"`
}

// captureService runs the extract, normalize, tag, save pipeline and keeps
// the last computed payload for the display endpoint. The mutex serializes
// concurrent hook deliveries; the dedup state lives here rather than in
// package-level variables.
type captureService struct {
	cfg    *config.Config
	logger *slog.Logger
	writer *vault.Writer
	store  *history.Store

	mu    sync.Mutex
	dedup vault.DedupState
	last  map[string]any
}

func newCaptureService(cfg *config.Config, store *history.Store, logger *slog.Logger) *captureService {
	return &captureService{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "capture"),
		writer: vault.NewWriter(cfg, logger),
		store:  store,
	}
}

// Capture processes one run snapshot. It never fails: any error or panic
// while building or saving the payload is converted into a placeholder
// payload so the host's generation run is never interrupted.
func (c *captureService) Capture(ctx context.Context, run *payload.Run, runID string) (outcome CaptureOutcome) {
	logger := logging.WithContext(ctx, c.logger)
	outcome = CaptureOutcome{RunID: runID}

	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = &panicError{value: r}
			}
			c.last = payload.Failure(err, debug.Stack())
			outcome.Failed = true
			logger.Error("payload capture panicked", logging.Any("panic", r))
		}
	}()

	data := payload.Build(run, payload.Options{
		IncludeImages: c.cfg.Capture.IncludeBase64Images,
	})
	c.last = data

	result, err := c.writer.Save(ctx, run.Mode, data, &c.dedup)
	if err != nil {
		// The payload stays available for display even when the save fails.
		outcome.Failed = true
		logger.Error("failed to save payload", logging.Error(err))
		return outcome
	}
	if result.Skipped {
		outcome.Skipped = true
		return outcome
	}

	outcome.Saved = true
	outcome.Filename = result.Filename
	outcome.Tag = result.Tag
	outcome.Draft = result.Draft
	c.record(ctx, logger, run, runID, result, data)
	return outcome
}

func (c *captureService) record(ctx context.Context, logger *slog.Logger, run *payload.Run, runID string, result *vault.Result, data map[string]any) {
	if c.store == nil {
		return
	}
	prompt, _ := data["prompt"].(string)
	negative, _ := data["negative_prompt"].(string)
	capture := &history.Capture{
		RunID:          runID,
		Mode:           string(run.Mode),
		Tag:            result.Tag,
		Filename:       result.Filename,
		Draft:          result.Draft,
		Prompt:         strings.TrimSpace(prompt),
		NegativePrompt: strings.TrimSpace(negative),
	}
	if err := c.store.Record(ctx, capture); err != nil {
		logger.Warn("failed to record capture history", logging.Error(err))
	}
}

// fail records an error payload without running the pipeline. Used when a
// run snapshot cannot even be decoded.
func (c *captureService) fail(ctx context.Context, err error) {
	logger := logging.WithContext(ctx, c.logger)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = payload.Failure(err, debug.Stack())
	logger.Error("payload capture failed", logging.Error(err))
}

// LastFormatted renders the most recent payload for display.
func (c *captureService) LastFormatted() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return payload.Format(c.last)
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	if s, ok := e.value.(string); ok {
		return s
	}
	return "panic during payload capture"
}
