// Package inspect derives a mirror's remote tracking state by querying git.
//
// Derivation follows a strict chain: version control metadata, then current
// branch, then tracking remote, then fetch URL. Any stage may legitimately
// terminate the chain; only hard subprocess failures surface as errors.
package inspect
