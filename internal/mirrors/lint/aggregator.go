package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/torvik/specmirror/internal/mirrors/shared"
	"github.com/torvik/specmirror/internal/registry"
)

const (
	registryMissingMessageConstant        = "mirror registry not configured"
	reporterFactoryMissingMessageConstant = "health reporter factory not configured"
	outputMissingMessageConstant          = "output writer not configured"
	fileSystemMissingMessageConstant      = "filesystem not configured"
	lintTargetHeaderTemplateConstant      = "Linting repo `%s`\n"
	lintProgressTemplateConstant          = " -> %s (%s)\n"
	analyzedCountTemplateConstant         = "\nAnalyzed %d podspec files.\n"
	warningGroupHeaderTemplateConstant    = "\n[WARNING] %s\n"
	errorGroupHeaderTemplateConstant      = "\n[ERROR] %s\n"
	affectedPodLineTemplateConstant       = "  - %s (%s)\n"
	cleanTargetMessageConstant            = "\nAll the specs passed validation.\n"
	targetSeparatorConstant               = "\n"
	podVersionsJoinSeparatorConstant      = ", "
	validationFailureSingularTemplate     = "%d error was found across all lint targets"
	validationFailurePluralTemplate       = "%d errors were found across all lint targets"
	lintTargetCompletedMessageConstant    = "lint target processed"
	logFieldTargetNameConstant            = "target_name"
	logFieldErrorGroupCountConstant       = "error_group_count"
)

// ErrRegistryNotConfigured indicates the aggregator was built without a registry.
var ErrRegistryNotConfigured = errors.New(registryMissingMessageConstant)

// ErrReporterFactoryNotConfigured indicates the aggregator was built without a reporter factory.
var ErrReporterFactoryNotConfigured = errors.New(reporterFactoryMissingMessageConstant)

// ErrOutputNotConfigured indicates the aggregator was built without an output writer.
var ErrOutputNotConfigured = errors.New(outputMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the aggregator was built without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ValidationFailure reports that linting found error-level findings.
//
// It is produced only after every target has been analyzed and rendered in
// full, carrying the cumulative count of distinct error message groups.
type ValidationFailure struct {
	ErrorCount int
}

// Error describes the aggregate verdict with its error-group count.
func (failure *ValidationFailure) Error() string {
	if failure.ErrorCount == 1 {
		return fmt.Sprintf(validationFailureSingularTemplate, failure.ErrorCount)
	}
	return fmt.Sprintf(validationFailurePluralTemplate, failure.ErrorCount)
}

// Dependencies enumerates the collaborators required by the aggregator.
type Dependencies struct {
	Registry             *registry.Registry
	FileSystem           registry.FileSystem
	ReporterFactory      shared.HealthReporterFactory
	CompatibilityChecker shared.CompatibilityChecker
	Output               io.Writer
	Logger               *zap.Logger
}

// Options configures a lint run.
//
// Target may name a registered mirror or an explicit directory path; when
// empty, every registered mirror is linted.
type Options struct {
	Target     string
	OnlyErrors bool
}

// Aggregator orchestrates health reporting across lint targets and renders a
// combined verdict.
type Aggregator struct {
	mirrorRegistry       *registry.Registry
	fileSystem           registry.FileSystem
	reporterFactory      shared.HealthReporterFactory
	compatibilityChecker shared.CompatibilityChecker
	output               io.Writer
	logger               *zap.Logger
}

// NewAggregator validates dependencies and constructs an Aggregator.
func NewAggregator(dependencies Dependencies) (*Aggregator, error) {
	if dependencies.Registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.ReporterFactory == nil {
		return nil, ErrReporterFactoryNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputNotConfigured
	}

	aggregatorLogger := dependencies.Logger
	if aggregatorLogger == nil {
		aggregatorLogger = zap.NewNop()
	}

	return &Aggregator{
		mirrorRegistry:       dependencies.Registry,
		fileSystem:           dependencies.FileSystem,
		reporterFactory:      dependencies.ReporterFactory,
		compatibilityChecker: dependencies.CompatibilityChecker,
		output:               dependencies.Output,
		logger:               aggregatorLogger,
	}, nil
}

// Lint analyzes every resolved target, renders each report in full, and
// returns a ValidationFailure when the cumulative error-group union across all
// targets is non-empty.
//
// The verdict is deliberately deferred: an error in an early target never
// prevents later targets from being analyzed and rendered.
func (aggregator *Aggregator) Lint(executionContext context.Context, options Options) error {
	lintTargets, targetsError := aggregator.resolveTargets(options)
	if targetsError != nil {
		return targetsError
	}

	aggregatedReport := shared.NewHealthReport()

	for targetIndex, lintTarget := range lintTargets {
		if targetIndex > 0 {
			fmt.Fprint(aggregator.output, targetSeparatorConstant)
		}

		if aggregator.compatibilityChecker != nil {
			aggregator.compatibilityChecker.CheckCompatibility(lintTarget.Path)
		}

		fmt.Fprintf(aggregator.output, lintTargetHeaderTemplateConstant, lintTarget.Name)

		targetReporter := aggregator.reporterFactory(lintTarget.Path)

		if preCheckError := targetReporter.PreCheck(executionContext, func(podName string, podVersion string) {
			fmt.Fprintf(aggregator.output, lintProgressTemplateConstant, podName, podVersion)
		}); preCheckError != nil {
			return preCheckError
		}

		targetReport, analyzeError := targetReporter.Analyze(executionContext)
		if analyzeError != nil {
			return analyzeError
		}

		aggregator.renderReport(targetReport, options.OnlyErrors)
		aggregatedReport.Merge(targetReport)

		aggregator.logger.Debug(
			lintTargetCompletedMessageConstant,
			zap.String(logFieldTargetNameConstant, lintTarget.Name),
			zap.Int(logFieldErrorGroupCountConstant, len(targetReport.ErrorOrder)),
		)
	}

	if errorGroupCount := len(aggregatedReport.ErrorOrder); errorGroupCount > 0 {
		return &ValidationFailure{ErrorCount: errorGroupCount}
	}
	return nil
}

func (aggregator *Aggregator) renderReport(targetReport shared.HealthReport, onlyErrors bool) {
	fmt.Fprintf(aggregator.output, analyzedCountTemplateConstant, targetReport.AnalyzedCount)

	if !onlyErrors {
		for _, warningMessage := range targetReport.WarningOrder {
			fmt.Fprintf(aggregator.output, warningGroupHeaderTemplateConstant, warningMessage)
			aggregator.renderAffectedPods(targetReport.PodsByWarning[warningMessage])
		}
	}

	for _, errorMessage := range targetReport.ErrorOrder {
		fmt.Fprintf(aggregator.output, errorGroupHeaderTemplateConstant, errorMessage)
		aggregator.renderAffectedPods(targetReport.PodsByError[errorMessage])
	}

	if len(targetReport.ErrorOrder) == 0 {
		fmt.Fprint(aggregator.output, cleanTargetMessageConstant)
	}
}

func (aggregator *Aggregator) renderAffectedPods(podsByName map[string][]string) {
	for _, podName := range sortedPodNames(podsByName) {
		fmt.Fprintf(aggregator.output, affectedPodLineTemplateConstant, podName, strings.Join(podsByName[podName], podVersionsJoinSeparatorConstant))
	}
}

type lintTarget struct {
	Name string
	Path string
}

func (aggregator *Aggregator) resolveTargets(options Options) ([]lintTarget, error) {
	trimmedTarget := strings.TrimSpace(options.Target)
	if len(trimmedTarget) == 0 {
		registeredMirrors, listError := aggregator.mirrorRegistry.List()
		if listError != nil {
			return nil, listError
		}
		lintTargets := make([]lintTarget, 0, len(registeredMirrors))
		for _, registeredMirror := range registeredMirrors {
			lintTargets = append(lintTargets, lintTarget{Name: registeredMirror.Name, Path: registeredMirror.Path})
		}
		return lintTargets, nil
	}

	if targetInfo, statError := aggregator.fileSystem.Stat(trimmedTarget); statError == nil && targetInfo.IsDir() {
		absoluteTarget, absError := aggregator.fileSystem.Abs(trimmedTarget)
		if absError != nil {
			return nil, absError
		}
		return []lintTarget{{Name: filepath.Base(absoluteTarget), Path: absoluteTarget}}, nil
	}

	namedMirror := aggregator.mirrorRegistry.Resolve(trimmedTarget)
	if _, statError := aggregator.fileSystem.Stat(namedMirror.Path); statError != nil {
		return nil, shared.NotFoundError{MirrorName: trimmedTarget}
	}
	return []lintTarget{{Name: namedMirror.Name, Path: namedMirror.Path}}, nil
}

func sortedPodNames(podsByName map[string][]string) []string {
	podNames := make([]string, 0, len(podsByName))
	for podName := range podsByName {
		podNames = append(podNames, podName)
	}
	sort.Strings(podNames)
	return podNames
}
