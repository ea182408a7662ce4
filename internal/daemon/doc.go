// Package daemon hosts the capture service: a single-instance background
// process that accepts run snapshots from the host application over HTTP,
// reconstructs and persists the equivalent API payload, and serves the last
// computed payload back for display. On startup it runs the organizer
// maintenance passes over the payloads directory.
package daemon
