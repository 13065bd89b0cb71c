// Package main hosts the curator CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the inventory pipeline: archive scans,
// standalone extraction, media probing, catalog and segment ingestion,
// matching passes, reports, and configuration scaffolding. It centralizes
// configuration resolution, store access, and logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
