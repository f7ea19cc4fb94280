package inspect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torvik/specmirror/internal/execshell"
	"github.com/torvik/specmirror/internal/mirrors/inspect"
)

const (
	testMirrorPathConstant        = "/tmp/repos/master"
	testRemoteURLConstant         = "https://example.com/Specs.git"
	testBranchNameConstant        = "master"
	testUpstreamReferenceConstant = "origin/master"
)

type scriptedGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

type scriptedGitExecutor struct {
	responsesBySubcommand map[string]scriptedGitResponse
	recordedArguments     [][]string
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedArguments = append(executor.recordedArguments, details.Arguments)
	response, scripted := executor.responsesBySubcommand[strings.Join(details.Arguments, " ")]
	if !scripted {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}
	}
	return response.result, response.err
}

func commandFailure(exitCode int) error {
	return execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: exitCode}}
}

func successOutput(standardOutput string) scriptedGitResponse {
	return scriptedGitResponse{result: execshell.ExecutionResult{StandardOutput: standardOutput}}
}

func TestInspectorRequiresExecutor(testInstance *testing.T) {
	_, creationError := inspect.NewInspector(nil)
	require.ErrorIs(testInstance, creationError, inspect.ErrGitExecutorNotConfigured)
}

func TestInspectorDescribeRequiresPath(testInstance *testing.T) {
	inspector, creationError := inspect.NewInspector(&scriptedGitExecutor{})
	require.NoError(testInstance, creationError)

	_, describeError := inspector.Describe(context.Background(), "  ")
	require.ErrorIs(testInstance, describeError, inspect.ErrMirrorPathRequired)
}

func TestInspectorLocalCopyStopsAfterProbe(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{responsesBySubcommand: map[string]scriptedGitResponse{
		"rev-parse --is-inside-work-tree": {err: commandFailure(128)},
	}}
	inspector, creationError := inspect.NewInspector(gitExecutor)
	require.NoError(testInstance, creationError)

	trackingInfo, describeError := inspector.Describe(context.Background(), testMirrorPathConstant)
	require.NoError(testInstance, describeError)
	require.False(testInstance, trackingInfo.HasVersionControl)
	require.Empty(testInstance, trackingInfo.BranchName)
	require.Len(testInstance, gitExecutor.recordedArguments, 1)
}

func TestInspectorDetachedHeadTerminatesAtBranchStage(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{responsesBySubcommand: map[string]scriptedGitResponse{
		"rev-parse --is-inside-work-tree": successOutput("true\n"),
		"rev-parse --abbrev-ref HEAD":     successOutput("HEAD\n"),
	}}
	inspector, creationError := inspect.NewInspector(gitExecutor)
	require.NoError(testInstance, creationError)

	trackingInfo, describeError := inspector.Describe(context.Background(), testMirrorPathConstant)
	require.NoError(testInstance, describeError)
	require.True(testInstance, trackingInfo.HasVersionControl)
	require.Empty(testInstance, trackingInfo.BranchName)
	require.Empty(testInstance, trackingInfo.RemoteName)
	require.Len(testInstance, gitExecutor.recordedArguments, 2)
}

func TestInspectorMissingUpstreamTerminatesAtRemoteStage(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{responsesBySubcommand: map[string]scriptedGitResponse{
		"rev-parse --is-inside-work-tree":                  successOutput("true\n"),
		"rev-parse --abbrev-ref HEAD":                      successOutput(testBranchNameConstant + "\n"),
		"rev-parse --abbrev-ref --symbolic-full-name @{u}": {err: commandFailure(128)},
	}}
	inspector, creationError := inspect.NewInspector(gitExecutor)
	require.NoError(testInstance, creationError)

	trackingInfo, describeError := inspector.Describe(context.Background(), testMirrorPathConstant)
	require.NoError(testInstance, describeError)
	require.True(testInstance, trackingInfo.HasVersionControl)
	require.Equal(testInstance, testBranchNameConstant, trackingInfo.BranchName)
	require.Empty(testInstance, trackingInfo.RemoteName)
	require.Empty(testInstance, trackingInfo.RemoteURL)
	require.Len(testInstance, gitExecutor.recordedArguments, 3)
}

func TestInspectorResolvesFullTrackingChain(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{responsesBySubcommand: map[string]scriptedGitResponse{
		"rev-parse --is-inside-work-tree":                  successOutput("true\n"),
		"rev-parse --abbrev-ref HEAD":                      successOutput(testBranchNameConstant + "\n"),
		"rev-parse --abbrev-ref --symbolic-full-name @{u}": successOutput(testUpstreamReferenceConstant + "\n"),
		"remote get-url origin":                            successOutput(testRemoteURLConstant + "\n"),
	}}
	inspector, creationError := inspect.NewInspector(gitExecutor)
	require.NoError(testInstance, creationError)

	trackingInfo, describeError := inspector.Describe(context.Background(), testMirrorPathConstant)
	require.NoError(testInstance, describeError)
	require.Equal(testInstance, inspect.RemoteTrackingInfo{
		HasVersionControl: true,
		BranchName:        testBranchNameConstant,
		RemoteName:        "origin",
		RemoteURL:         testRemoteURLConstant,
	}, trackingInfo)
}

func TestInspectorSurfacesRemoteURLFailure(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{responsesBySubcommand: map[string]scriptedGitResponse{
		"rev-parse --is-inside-work-tree":                  successOutput("true\n"),
		"rev-parse --abbrev-ref HEAD":                      successOutput(testBranchNameConstant + "\n"),
		"rev-parse --abbrev-ref --symbolic-full-name @{u}": successOutput(testUpstreamReferenceConstant + "\n"),
		"remote get-url origin":                            {err: commandFailure(2)},
	}}
	inspector, creationError := inspect.NewInspector(gitExecutor)
	require.NoError(testInstance, creationError)

	_, describeError := inspector.Describe(context.Background(), testMirrorPathConstant)
	require.Error(testInstance, describeError)

	commandFailed := execshell.CommandFailedError{}
	require.ErrorAs(testInstance, describeError, &commandFailed)
}
