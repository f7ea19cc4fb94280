package compat_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torvik/specmirror/internal/mirrors/compat"
	"github.com/torvik/specmirror/internal/registry"
)

const (
	testToolVersionConstant          = "1.4.0"
	testVersionFileNameConstant      = "CocoaPods-version.yml"
	testSatisfiedRequirementConstant = "min: 1.0.0\nlast: 1.4.0\n"
	testUnmetRequirementConstant     = "min: 2.1.0\n"
	testMalformedRequirementConstant = ": not yaml ["
)

func writeVersionFile(testInstance *testing.T, mirrorPath string, fileContents string) {
	require.NoError(testInstance, os.WriteFile(filepath.Join(mirrorPath, testVersionFileNameConstant), []byte(fileContents), 0o644))
}

func TestCheckCompatibility(testInstance *testing.T) {
	testCases := []struct {
		name           string
		fileContents   string
		writeFile      bool
		expectedNotice bool
	}{
		{name: "missing_version_file_is_silent", writeFile: false},
		{name: "satisfied_requirement_is_silent", writeFile: true, fileContents: testSatisfiedRequirementConstant},
		{name: "malformed_file_is_silent", writeFile: true, fileContents: testMalformedRequirementConstant},
		{name: "unmet_requirement_prints_notice", writeFile: true, fileContents: testUnmetRequirementConstant, expectedNotice: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			mirrorPath := testInstance.TempDir()
			if testCase.writeFile {
				writeVersionFile(testInstance, mirrorPath, testCase.fileContents)
			}

			noticeBuffer := &bytes.Buffer{}
			compatibilityChecker := compat.NewChecker(registry.OSFileSystem{}, noticeBuffer, testToolVersionConstant)

			compatibilityChecker.CheckCompatibility(mirrorPath)

			if testCase.expectedNotice {
				require.Contains(testInstance, noticeBuffer.String(), "requires version 2.1.0 or later")
				require.Contains(testInstance, noticeBuffer.String(), testToolVersionConstant)
			} else {
				require.Empty(testInstance, noticeBuffer.String())
			}
		})
	}
}
