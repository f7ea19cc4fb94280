package shared

import (
	"context"
	"fmt"

	"github.com/torvik/specmirror/internal/execshell"
)

const (
	usageErrorTemplateConstant    = "usage: %s"
	notFoundErrorTemplateConstant = "unable to find the %q repo"
)

// GitExecutor exposes the subset of shell execution used by mirror services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CompatibilityChecker verifies whether a mirror declares a minimum tool version.
//
// The check is informational: incompatibility is reported to the user but never
// fails the surrounding operation.
type CompatibilityChecker interface {
	CheckCompatibility(mirrorPath string)
}

// ProgressCallback receives pod/version pairs as a health reporter scans specs.
type ProgressCallback func(podName string, podVersion string)

// HealthReporter inspects a mirror's contents and yields warnings and errors.
type HealthReporter interface {
	PreCheck(executionContext context.Context, onProgress ProgressCallback) error
	Analyze(executionContext context.Context) (HealthReport, error)
}

// HealthReporterFactory builds a HealthReporter for the provided mirror path.
type HealthReporterFactory func(mirrorPath string) HealthReporter

// HealthReport groups affected pods and versions under their finding messages.
//
// Findings are keyed by message text first: two pods failing the same check
// collapse under one message header. WarningOrder and ErrorOrder preserve the
// sequence in which messages were first reported.
type HealthReport struct {
	AnalyzedCount int
	WarningOrder  []string
	ErrorOrder    []string
	PodsByWarning map[string]map[string][]string
	PodsByError   map[string]map[string][]string
}

// UsageError reports a missing or malformed required argument.
type UsageError struct {
	Message string
}

// Error describes the usage problem.
func (usageFailure UsageError) Error() string {
	return fmt.Sprintf(usageErrorTemplateConstant, usageFailure.Message)
}

// NewUsageError constructs a UsageError with the supplied message.
func NewUsageError(message string) UsageError {
	return UsageError{Message: message}
}

// NotFoundError reports an operation against a mirror that does not exist.
type NotFoundError struct {
	MirrorName string
}

// Error names the missing mirror.
func (notFoundFailure NotFoundError) Error() string {
	return fmt.Sprintf(notFoundErrorTemplateConstant, notFoundFailure.MirrorName)
}
