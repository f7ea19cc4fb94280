// Package lifecycle adds, updates, and removes mirrors by delegating clone and
// fetch work to the git client.
package lifecycle
