// Package health implements the built-in spec-file health reporter used when
// no external reporter is supplied.
package health
