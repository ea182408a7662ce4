// Package history records every persisted payload in a small SQLite
// database so the CLI can list recent captures without rescanning the
// payloads directory. The flat JSON files remain the source of truth; the
// organizer prunes rows here whenever it deletes or renames a file.
package history
