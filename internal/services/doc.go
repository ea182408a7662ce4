// Package services holds cross-cutting helpers shared by the capture
// pipeline: sentinel error markers with stage-aware wrapping, and context
// annotations (run id, mode) that the logging layer surfaces automatically.
package services
