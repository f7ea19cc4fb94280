// Package registry models the directory-backed mirror registry.
//
// Every immediate subdirectory of the configured root is a registered mirror;
// the subdirectory name is the mirror name and no separate index is kept.
package registry
