package compat

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torvik/specmirror/internal/registry"
)

const (
	minimumVersionFileNameConstant        = "CocoaPods-version.yml"
	versionSegmentSeparatorConstant       = "."
	incompatibilityNoticeTemplateConstant = "WARNING: the %q repo requires version %s or later (this tool is %s)\n"
	defaultToolVersionConstant            = "1.0.0"
)

// MinimumVersionRequirement mirrors the structure of the version file shipped
// at the root of specification repositories.
type MinimumVersionRequirement struct {
	Minimum string `yaml:"min"`
	Last    string `yaml:"last"`
}

// Checker reports whether a mirror declares a minimum tool version above ours.
//
// The check is purely informational: a missing or unreadable version file is
// silent, and an unmet requirement prints a notice without failing anything.
type Checker struct {
	fileSystem  registry.FileSystem
	output      io.Writer
	toolVersion string
}

// NewChecker constructs a Checker writing notices to the provided writer.
func NewChecker(fileSystem registry.FileSystem, output io.Writer, toolVersion string) *Checker {
	effectiveVersion := strings.TrimSpace(toolVersion)
	if len(effectiveVersion) == 0 {
		effectiveVersion = defaultToolVersionConstant
	}
	return &Checker{fileSystem: fileSystem, output: output, toolVersion: effectiveVersion}
}

// CheckCompatibility inspects the mirror's minimum-version declaration.
func (checker *Checker) CheckCompatibility(mirrorPath string) {
	if checker.fileSystem == nil {
		return
	}

	requirementData, readError := checker.fileSystem.ReadFile(filepath.Join(mirrorPath, minimumVersionFileNameConstant))
	if readError != nil {
		return
	}

	var requirement MinimumVersionRequirement
	if unmarshalError := yaml.Unmarshal(requirementData, &requirement); unmarshalError != nil {
		return
	}

	minimumVersion := strings.TrimSpace(requirement.Minimum)
	if len(minimumVersion) == 0 {
		return
	}

	if compareVersions(checker.toolVersion, minimumVersion) >= 0 {
		return
	}

	if checker.output != nil {
		fmt.Fprintf(checker.output, incompatibilityNoticeTemplateConstant, filepath.Base(mirrorPath), minimumVersion, checker.toolVersion)
	}
}

// compareVersions orders dotted numeric versions, treating missing segments as
// zero and non-numeric segments as zero.
func compareVersions(leftVersion string, rightVersion string) int {
	leftSegments := strings.Split(leftVersion, versionSegmentSeparatorConstant)
	rightSegments := strings.Split(rightVersion, versionSegmentSeparatorConstant)

	segmentCount := len(leftSegments)
	if len(rightSegments) > segmentCount {
		segmentCount = len(rightSegments)
	}

	for segmentIndex := 0; segmentIndex < segmentCount; segmentIndex++ {
		leftValue := versionSegmentValue(leftSegments, segmentIndex)
		rightValue := versionSegmentValue(rightSegments, segmentIndex)
		if leftValue != rightValue {
			if leftValue < rightValue {
				return -1
			}
			return 1
		}
	}

	return 0
}

func versionSegmentValue(versionSegments []string, segmentIndex int) int {
	if segmentIndex >= len(versionSegments) {
		return 0
	}
	segmentValue, parseError := strconv.Atoi(strings.TrimSpace(versionSegments[segmentIndex]))
	if parseError != nil {
		return 0
	}
	return segmentValue
}
