package lifecycle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torvik/specmirror/internal/execshell"
	"github.com/torvik/specmirror/internal/mirrors/lifecycle"
	"github.com/torvik/specmirror/internal/mirrors/shared"
	"github.com/torvik/specmirror/internal/registry"
)

const (
	testMirrorNameConstant    = "master"
	testRemoteURLConstant     = "https://example.com/Specs.git"
	testBranchNameConstant    = "stable"
	testFailingMirrorConstant = "flaky"
	testThirdMirrorConstant   = "private-specs"
)

type cloningGitExecutor struct {
	recordedCommands []execshell.CommandDetails
	failOnArgument   string
}

func (executor *cloningGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)

	for _, commandArgument := range details.Arguments {
		if len(executor.failOnArgument) > 0 && commandArgument == executor.failOnArgument {
			return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}
		}
	}

	if len(details.Arguments) > 0 && details.Arguments[0] == "clone" {
		cloneTarget := filepath.Join(details.WorkingDirectory, details.Arguments[2])
		if mkdirError := os.MkdirAll(cloneTarget, 0o755); mkdirError != nil {
			return execshell.ExecutionResult{}, mkdirError
		}
	}

	return execshell.ExecutionResult{}, nil
}

type recordingCompatibilityChecker struct {
	checkedPaths []string
}

func (checker *recordingCompatibilityChecker) CheckCompatibility(mirrorPath string) {
	checker.checkedPaths = append(checker.checkedPaths, mirrorPath)
}

func newServiceForTest(testInstance *testing.T, gitExecutor shared.GitExecutor, compatibilityChecker shared.CompatibilityChecker) (*lifecycle.Service, *registry.Registry) {
	rootDirectory := filepath.Join(testInstance.TempDir(), "repos")
	mirrorRegistry, registryError := registry.NewRegistry(rootDirectory)
	require.NoError(testInstance, registryError)

	lifecycleService, serviceError := lifecycle.NewService(lifecycle.Dependencies{
		GitExecutor:          gitExecutor,
		Registry:             mirrorRegistry,
		FileSystem:           registry.OSFileSystem{},
		CompatibilityChecker: compatibilityChecker,
	})
	require.NoError(testInstance, serviceError)

	return lifecycleService, mirrorRegistry
}

func TestAddRequiresNameAndURL(testInstance *testing.T) {
	testCases := []struct {
		name    string
		options lifecycle.AddOptions
	}{
		{name: "missing_name", options: lifecycle.AddOptions{URL: testRemoteURLConstant}},
		{name: "missing_url", options: lifecycle.AddOptions{Name: testMirrorNameConstant}},
		{name: "missing_both", options: lifecycle.AddOptions{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lifecycleService, _ := newServiceForTest(testInstance, &cloningGitExecutor{}, nil)

			_, addError := lifecycleService.Add(context.Background(), testCase.options)

			usageFailure := shared.UsageError{}
			require.ErrorAs(testInstance, addError, &usageFailure)
		})
	}
}

func TestAddClonesIntoRegistryRoot(testInstance *testing.T) {
	gitExecutor := &cloningGitExecutor{}
	compatibilityChecker := &recordingCompatibilityChecker{}
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, gitExecutor, compatibilityChecker)

	addedMirror, addError := lifecycleService.Add(context.Background(), lifecycle.AddOptions{Name: testMirrorNameConstant, URL: testRemoteURLConstant})
	require.NoError(testInstance, addError)
	require.Equal(testInstance, mirrorRegistry.Resolve(testMirrorNameConstant).Path, addedMirror.Path)

	mirrorInfo, statError := os.Stat(addedMirror.Path)
	require.NoError(testInstance, statError)
	require.True(testInstance, mirrorInfo.IsDir())

	require.Len(testInstance, gitExecutor.recordedCommands, 1)
	require.Equal(testInstance, []string{"clone", testRemoteURLConstant, testMirrorNameConstant}, gitExecutor.recordedCommands[0].Arguments)
	require.Equal(testInstance, mirrorRegistry.RootPath(), gitExecutor.recordedCommands[0].WorkingDirectory)

	require.Equal(testInstance, []string{addedMirror.Path}, compatibilityChecker.checkedPaths)
}

func TestAddChecksOutRequestedBranchInsideMirror(testInstance *testing.T) {
	gitExecutor := &cloningGitExecutor{}
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, gitExecutor, nil)

	_, addError := lifecycleService.Add(context.Background(), lifecycle.AddOptions{
		Name:   testMirrorNameConstant,
		URL:    testRemoteURLConstant,
		Branch: testBranchNameConstant,
	})
	require.NoError(testInstance, addError)

	require.Len(testInstance, gitExecutor.recordedCommands, 2)
	require.Equal(testInstance, []string{"checkout", testBranchNameConstant}, gitExecutor.recordedCommands[1].Arguments)
	require.Equal(testInstance, mirrorRegistry.Resolve(testMirrorNameConstant).Path, gitExecutor.recordedCommands[1].WorkingDirectory)
}

func TestAddCloneFailureSkipsCompatibilityHook(testInstance *testing.T) {
	gitExecutor := &cloningGitExecutor{failOnArgument: "clone"}
	compatibilityChecker := &recordingCompatibilityChecker{}
	lifecycleService, _ := newServiceForTest(testInstance, gitExecutor, compatibilityChecker)

	_, addError := lifecycleService.Add(context.Background(), lifecycle.AddOptions{Name: testMirrorNameConstant, URL: testRemoteURLConstant})
	require.Error(testInstance, addError)

	commandFailure := execshell.CommandFailedError{}
	require.ErrorAs(testInstance, addError, &commandFailure)
	require.Empty(testInstance, compatibilityChecker.checkedPaths)
}

func TestRemoveRequiresName(testInstance *testing.T) {
	lifecycleService, _ := newServiceForTest(testInstance, &cloningGitExecutor{}, nil)

	removeError := lifecycleService.Remove(context.Background(), "  ")

	usageFailure := shared.UsageError{}
	require.ErrorAs(testInstance, removeError, &usageFailure)
}

func TestRemoveMissingMirrorFailsWithoutMutation(testInstance *testing.T) {
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, &cloningGitExecutor{}, nil)
	require.NoError(testInstance, mirrorRegistry.EnsureRoot())

	removeError := lifecycleService.Remove(context.Background(), testMirrorNameConstant)

	notFoundFailure := shared.NotFoundError{}
	require.ErrorAs(testInstance, removeError, &notFoundFailure)
	require.Equal(testInstance, testMirrorNameConstant, notFoundFailure.MirrorName)

	remainingMirrors, listError := mirrorRegistry.List()
	require.NoError(testInstance, listError)
	require.Empty(testInstance, remainingMirrors)
}

func TestRemoveDeletesMirrorDirectory(testInstance *testing.T) {
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, &cloningGitExecutor{}, nil)
	require.NoError(testInstance, mirrorRegistry.EnsureRoot())

	mirrorPath := mirrorRegistry.Resolve(testMirrorNameConstant).Path
	require.NoError(testInstance, os.MkdirAll(filepath.Join(mirrorPath, "Specs"), 0o755))

	require.NoError(testInstance, lifecycleService.Remove(context.Background(), testMirrorNameConstant))

	_, statError := os.Stat(mirrorPath)
	require.True(testInstance, os.IsNotExist(statError))
}

func TestUpdateContinuesPastFailingMirror(testInstance *testing.T) {
	gitExecutor := &cloningGitExecutor{}
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, gitExecutor, nil)
	require.NoError(testInstance, mirrorRegistry.EnsureRoot())

	for _, mirrorName := range []string{testFailingMirrorConstant, testMirrorNameConstant, testThirdMirrorConstant} {
		require.NoError(testInstance, os.MkdirAll(mirrorRegistry.Resolve(mirrorName).Path, 0o755))
	}

	failingExecutor := &perDirectoryFailingExecutor{
		delegate:      gitExecutor,
		failingMirror: mirrorRegistry.Resolve(testFailingMirrorConstant).Path,
	}

	lifecycleService, serviceError := lifecycle.NewService(lifecycle.Dependencies{
		GitExecutor: failingExecutor,
		Registry:    mirrorRegistry,
		FileSystem:  registry.OSFileSystem{},
	})
	require.NoError(testInstance, serviceError)

	updateResult, updateError := lifecycleService.Update(context.Background(), lifecycle.UpdateOptions{})
	require.NoError(testInstance, updateError)

	require.Len(testInstance, updateResult.Failed, 1)
	require.Equal(testInstance, testFailingMirrorConstant, updateResult.Failed[0].MirrorName)
	require.ElementsMatch(testInstance, []string{testMirrorNameConstant, testThirdMirrorConstant}, updateResult.Updated)
}

func TestUpdateNamedMissingMirrorFails(testInstance *testing.T) {
	lifecycleService, mirrorRegistry := newServiceForTest(testInstance, &cloningGitExecutor{}, nil)
	require.NoError(testInstance, mirrorRegistry.EnsureRoot())

	_, updateError := lifecycleService.Update(context.Background(), lifecycle.UpdateOptions{Name: testMirrorNameConstant})

	notFoundFailure := shared.NotFoundError{}
	require.ErrorAs(testInstance, updateError, &notFoundFailure)
}

type perDirectoryFailingExecutor struct {
	delegate      shared.GitExecutor
	failingMirror string
}

func (executor *perDirectoryFailingExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if details.WorkingDirectory == executor.failingMirror {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 1}}
	}
	return executor.delegate.ExecuteGit(executionContext, details)
}
