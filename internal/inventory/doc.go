// Package inventory defines the persisted entity model (assets, segments,
// catalog videos, matches, scan history) and the SQLite store that enforces
// its invariants.
package inventory
