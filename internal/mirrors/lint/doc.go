// Package lint orchestrates health reporting across one or more mirrors and
// aggregates per-mirror findings into a single pass/fail verdict.
//
// The verdict depends only on error-level findings: a run producing nothing
// but warnings succeeds. Every target is analyzed and rendered in full before
// the verdict is decided.
package lint
