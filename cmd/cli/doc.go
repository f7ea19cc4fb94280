// Package cli assembles the specmirror command hierarchy, wiring configuration
// loading, structured logging, and the repo command group into a single Cobra
// application.
package cli
