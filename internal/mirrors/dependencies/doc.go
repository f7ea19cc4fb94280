// Package dependencies resolves optional collaborators to their defaults so
// command builders can accept injected test doubles without special cases.
package dependencies
