package health

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torvik/specmirror/internal/mirrors/shared"
)

const (
	specsDirectoryNameConstant        = "Specs"
	specFileYAMLSuffixConstant        = ".podspec.yaml"
	specFileJSONSuffixConstant        = ".podspec.json"
	hiddenEntryPrefixConstant         = "."
	missingSpecFileMessageConstant    = "spec file is missing"
	unparsableSpecFileMessageConstant = "spec file could not be parsed"
	mismatchedSpecNameMessageConstant = "spec name does not match its directory"
	missingLicenseMessageConstant     = "spec does not declare a license"
	missingSourceMessageConstant      = "spec does not declare source"
)

// specDocument captures the subset of a pod specification this reporter checks.
//
// JSON spec files parse through the same decoder since JSON is a YAML subset.
type specDocument struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	License any    `yaml:"license"`
	Source  any    `yaml:"source"`
}

// SpecFileReporter is the built-in health reporter for spec repositories.
//
// It scans the mirror's pod directories version by version, verifying each
// version directory carries a parsable spec file whose declared name matches
// its pod directory and that recommended metadata is present.
type SpecFileReporter struct {
	mirrorPath string
}

// NewSpecFileReporter constructs a reporter for the mirror at the given path.
func NewSpecFileReporter(mirrorPath string) *SpecFileReporter {
	return &SpecFileReporter{mirrorPath: mirrorPath}
}

// PreCheck walks every pod version and reports it through the callback.
func (reporter *SpecFileReporter) PreCheck(executionContext context.Context, onProgress shared.ProgressCallback) error {
	podVersions, enumerationError := reporter.enumeratePodVersions()
	if enumerationError != nil {
		return enumerationError
	}

	for _, podVersion := range podVersions {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if onProgress != nil {
			onProgress(podVersion.podName, podVersion.versionName)
		}
	}

	return nil
}

// Analyze inspects every pod version and aggregates findings by message.
func (reporter *SpecFileReporter) Analyze(executionContext context.Context) (shared.HealthReport, error) {
	healthReport := shared.NewHealthReport()

	podVersions, enumerationError := reporter.enumeratePodVersions()
	if enumerationError != nil {
		return shared.HealthReport{}, enumerationError
	}

	for _, podVersion := range podVersions {
		if contextError := executionContext.Err(); contextError != nil {
			return shared.HealthReport{}, contextError
		}

		healthReport.AnalyzedCount++
		reporter.analyzeVersion(&healthReport, podVersion)
	}

	return healthReport, nil
}

type podVersionEntry struct {
	podName     string
	versionName string
	versionPath string
}

func (reporter *SpecFileReporter) analyzeVersion(healthReport *shared.HealthReport, podVersion podVersionEntry) {
	specFilePath, specFileFound := findSpecFile(podVersion.versionPath)
	if !specFileFound {
		healthReport.AddError(missingSpecFileMessageConstant, podVersion.podName, podVersion.versionName)
		return
	}

	specData, readError := os.ReadFile(specFilePath)
	if readError != nil {
		healthReport.AddError(unparsableSpecFileMessageConstant, podVersion.podName, podVersion.versionName)
		return
	}

	var parsedSpec specDocument
	if unmarshalError := yaml.Unmarshal(specData, &parsedSpec); unmarshalError != nil {
		healthReport.AddError(unparsableSpecFileMessageConstant, podVersion.podName, podVersion.versionName)
		return
	}

	declaredName := strings.TrimSpace(parsedSpec.Name)
	if len(declaredName) > 0 && declaredName != podVersion.podName {
		healthReport.AddError(mismatchedSpecNameMessageConstant, podVersion.podName, podVersion.versionName)
	}

	if parsedSpec.License == nil {
		healthReport.AddWarning(missingLicenseMessageConstant, podVersion.podName, podVersion.versionName)
	}
	if parsedSpec.Source == nil {
		healthReport.AddWarning(missingSourceMessageConstant, podVersion.podName, podVersion.versionName)
	}
}

// enumeratePodVersions lists pod version directories beneath the Specs
// directory, falling back to the mirror root for flat repository layouts.
func (reporter *SpecFileReporter) enumeratePodVersions() ([]podVersionEntry, error) {
	podsRoot := filepath.Join(reporter.mirrorPath, specsDirectoryNameConstant)
	if _, statError := os.Stat(podsRoot); statError != nil {
		podsRoot = reporter.mirrorPath
	}

	podDirectories, readError := os.ReadDir(podsRoot)
	if readError != nil {
		return nil, readError
	}

	var podVersions []podVersionEntry
	for _, podDirectory := range podDirectories {
		if !podDirectory.IsDir() || strings.HasPrefix(podDirectory.Name(), hiddenEntryPrefixConstant) {
			continue
		}

		versionDirectories, versionsReadError := os.ReadDir(filepath.Join(podsRoot, podDirectory.Name()))
		if versionsReadError != nil {
			return nil, versionsReadError
		}

		for _, versionDirectory := range versionDirectories {
			if !versionDirectory.IsDir() || strings.HasPrefix(versionDirectory.Name(), hiddenEntryPrefixConstant) {
				continue
			}
			podVersions = append(podVersions, podVersionEntry{
				podName:     podDirectory.Name(),
				versionName: versionDirectory.Name(),
				versionPath: filepath.Join(podsRoot, podDirectory.Name(), versionDirectory.Name()),
			})
		}
	}

	sort.Slice(podVersions, func(firstIndex int, secondIndex int) bool {
		if podVersions[firstIndex].podName != podVersions[secondIndex].podName {
			return podVersions[firstIndex].podName < podVersions[secondIndex].podName
		}
		return podVersions[firstIndex].versionName < podVersions[secondIndex].versionName
	})

	return podVersions, nil
}

func findSpecFile(versionPath string) (string, bool) {
	directoryEntries, readError := os.ReadDir(versionPath)
	if readError != nil {
		return "", false
	}

	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		entryName := directoryEntry.Name()
		if strings.HasSuffix(entryName, specFileYAMLSuffixConstant) || strings.HasSuffix(entryName, specFileJSONSuffixConstant) {
			return filepath.Join(versionPath, entryName), true
		}
	}

	return "", false
}
