package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"payloadvault/internal/logging"
	"payloadvault/internal/textutil"
	"payloadvault/internal/vault"
)

// DupGroup describes one set of payloads sharing a prompt pair.
type DupGroup struct {
	Prompt         string
	NegativePrompt string
	Keeper         string
	Deleted        []string
}

// DedupeReport summarizes a dedup pass.
type DedupeReport struct {
	Groups  []DupGroup
	Scanned int
	Deleted int
	Failed  int
}

// Dedupe groups main-directory payloads by (trimmed prompt, trimmed
// negative prompt) and deletes all but the newest file in each group, where
// newest means the lexicographically greatest filename timestamp. Drafts
// and singletons are never considered. With dryRun set, nothing is deleted.
func (o *Organizer) Dedupe(ctx context.Context, dryRun bool) (*DedupeReport, error) {
	logger := logging.WithContext(ctx, o.logger)
	report := &DedupeReport{}

	names, err := o.listPayloadFiles()
	if err != nil {
		return nil, fmt.Errorf("scan payloads directory: %w", err)
	}

	groups := map[[2]string][]string{}
	prompts := map[[2]string][2]string{}
	for _, name := range names {
		report.Scanned++
		data, err := o.readPayload(name)
		if err != nil {
			report.Failed++
			logger.Warn("skipping unreadable payload", logging.String("filename", name), logging.Error(err))
			continue
		}
		prompt := trimmedString(data, "prompt")
		negative := trimmedString(data, "negative_prompt")
		key := [2]string{textutil.PromptKey(prompt), textutil.PromptKey(negative)}
		groups[key] = append(groups[key], name)
		prompts[key] = [2]string{prompt, negative}
	}

	keys := make([][2]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	for _, key := range keys {
		files := groups[key]
		if len(files) < 2 {
			continue
		}
		sort.Slice(files, func(i, j int) bool {
			return vault.TimestampSegment(files[i]) < vault.TimestampSegment(files[j])
		})
		keeper := files[len(files)-1]
		group := DupGroup{
			Prompt:         prompts[key][0],
			NegativePrompt: prompts[key][1],
			Keeper:         keeper,
		}
		for _, name := range files[:len(files)-1] {
			if !dryRun {
				if err := os.Remove(filepath.Join(o.cfg.Paths.PayloadsDir, name)); err != nil {
					report.Failed++
					logger.Warn("failed to delete duplicate payload", logging.String("filename", name), logging.Error(err))
					continue
				}
				o.pruneHistory(ctx, logger, name)
			}
			group.Deleted = append(group.Deleted, name)
			report.Deleted++
		}
		if len(group.Deleted) > 0 {
			report.Groups = append(report.Groups, group)
			if !dryRun {
				logger.Info("removed duplicate payloads",
					logging.String("keeper", keeper),
					logging.Int("deleted", len(group.Deleted)),
				)
			}
		}
	}

	return report, nil
}
