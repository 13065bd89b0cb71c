// Package services defines the sentinel error taxonomy shared by the ingest
// passes and the CLI exit-code mapping built on top of it.
package services
