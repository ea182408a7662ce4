// Package main hosts the payloadvault CLI entrypoint and command graph.
//
// The Cobra-based command tree covers payload inspection, directory
// organization passes, capture history queries, and configuration
// scaffolding. Commands that need the live daemon talk to its capture API
// over HTTP; the organize and dedupe passes work directly on the payloads
// directory so they run with or without a daemon.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
