package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"payloadvault/internal/fileutil"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
	"payloadvault/internal/vault"
)

// MigrateAction records one change the migration pass made or would make.
type MigrateAction struct {
	From  string
	To    string
	Draft bool
}

// MigrateReport summarizes a migration pass.
type MigrateReport struct {
	Actions []MigrateAction
	Scanned int
	Failed  int
}

// Migrate brings the main payload directory up to the current naming
// scheme: files missing the mode segment are renamed with mode and tag
// re-derived from content, and non-high-res payloads move into drafts.
// With dryRun set, the report is produced without touching disk.
func (o *Organizer) Migrate(ctx context.Context, dryRun bool) (*MigrateReport, error) {
	logger := logging.WithContext(ctx, o.logger)
	report := &MigrateReport{}

	names, err := o.listPayloadFiles()
	if err != nil {
		return nil, fmt.Errorf("scan payloads directory: %w", err)
	}

	for _, name := range names {
		report.Scanned++
		data, err := o.readPayload(name)
		if err != nil {
			report.Failed++
			logger.Warn("skipping unreadable payload", logging.String("filename", name), logging.Error(err))
			continue
		}

		enableHR, _ := data["enable_hr"].(bool)
		mode := modeForPayload(data)
		ts := vault.TimestampSegment(name)

		if !enableHR {
			target := name
			if !vault.HasModeSegment(name) {
				target = vault.RebuildFileName(mode, "", ts)
			}
			action := MigrateAction{From: name, To: filepath.Join("drafts", target), Draft: true}
			if !dryRun {
				src := filepath.Join(o.cfg.Paths.PayloadsDir, name)
				dst := filepath.Join(o.cfg.DraftsDir(), target)
				if err := fileutil.MoveFile(src, dst); err != nil {
					report.Failed++
					logger.Warn("failed to move draft payload", logging.String("filename", name), logging.Error(err))
					continue
				}
				o.pruneHistory(ctx, logger, name)
				logger.Info("moved non-high-res payload to drafts", logging.String("filename", name))
			}
			report.Actions = append(report.Actions, action)
			continue
		}

		if vault.HasModeSegment(name) {
			continue
		}
		target := vault.RebuildFileName(mode, payload.Tag(data), ts)
		if target == name {
			continue
		}
		action := MigrateAction{From: name, To: target}
		if !dryRun {
			src := filepath.Join(o.cfg.Paths.PayloadsDir, name)
			dst := filepath.Join(o.cfg.Paths.PayloadsDir, target)
			if err := os.Rename(src, dst); err != nil {
				report.Failed++
				logger.Warn("failed to rename payload", logging.String("filename", name), logging.Error(err))
				continue
			}
			o.pruneHistory(ctx, logger, name)
			logger.Info("renamed payload to mode-qualified scheme",
				logging.String("from", name),
				logging.String("to", target),
			)
		}
		report.Actions = append(report.Actions, action)
	}

	return report, nil
}
