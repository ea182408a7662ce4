// Package vault persists captured payloads under the configured payloads
// directory.
//
// It owns the file naming scheme (payload_<mode>[_<tag>]_<timestamp>.json),
// routes non-high-res payloads into the drafts subdirectory, maintains the
// payload_latest.json and per-category skeleton snapshots, and suppresses
// duplicate host callbacks through a short content-hash window carried in an
// explicit DedupState rather than process-wide variables.
package vault
