// Package organizer keeps the payloads directory tidy across restarts.
//
// It runs two one-shot passes. The migration pass rewrites legacy filenames
// into the mode-qualified scheme and moves non-high-res payloads into the
// drafts subdirectory. The dedup pass groups the remaining files by their
// prompt pair and keeps only the newest save in each group. Per-file
// failures are logged and skipped so a single bad file never aborts a pass.
package organizer
