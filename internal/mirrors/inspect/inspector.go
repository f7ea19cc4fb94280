package inspect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/torvik/specmirror/internal/execshell"
	"github.com/torvik/specmirror/internal/mirrors/shared"
)

const (
	gitExecutorMissingMessageConstant   = "git executor not configured"
	mirrorPathRequiredMessageConstant   = "mirror path must be provided"
	remoteURLResolutionTemplateConstant = "failed to resolve fetch URL for remote %q: %w"
	gitRevParseSubcommandConstant       = "rev-parse"
	gitInsideWorkTreeFlagConstant       = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant            = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant     = "--symbolic-full-name"
	gitHeadReferenceConstant            = "HEAD"
	gitUpstreamReferenceConstant        = "@{u}"
	gitRemoteSubcommandConstant         = "remote"
	gitRemoteGetURLSubcommandConstant   = "get-url"
	trackingReferenceSeparatorConstant  = "/"
	detachedHeadBranchSentinelConstant  = "HEAD"
	insideWorkTreeAffirmativeConstant   = "true"
)

// ErrGitExecutorNotConfigured indicates the inspector was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrMirrorPathRequired indicates Describe was invoked with an empty path.
var ErrMirrorPathRequired = errors.New(mirrorPathRequiredMessageConstant)

// RemoteTrackingInfo captures what, if anything, a mirror is tracking.
//
// The fields form a strict dependency chain: RemoteURL is set only when
// RemoteName is set, RemoteName only when BranchName is set, and BranchName
// only when HasVersionControl is true. A chain that terminates early is a
// valid state, not an error.
type RemoteTrackingInfo struct {
	HasVersionControl bool
	BranchName        string
	RemoteName        string
	RemoteURL         string
}

// Inspector derives remote tracking state for mirrors by querying git.
type Inspector struct {
	executor shared.GitExecutor
}

// NewInspector validates dependencies and constructs an Inspector.
func NewInspector(executor shared.GitExecutor) (*Inspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Inspector{executor: executor}, nil
}

// Describe reports the tracking state of the mirror at the provided path.
//
// Each derivation stage short-circuits when its precondition is absent: a
// directory without version control metadata, a detached or unborn checkout,
// or a branch with no upstream all terminate the chain without error. Only a
// hard subprocess failure on the remote URL lookup surfaces to the caller.
func (inspector *Inspector) Describe(executionContext context.Context, mirrorPath string) (RemoteTrackingInfo, error) {
	trimmedMirrorPath := strings.TrimSpace(mirrorPath)
	if len(trimmedMirrorPath) == 0 {
		return RemoteTrackingInfo{}, ErrMirrorPathRequired
	}

	underVersionControl, probeError := inspector.probeVersionControl(executionContext, trimmedMirrorPath)
	if probeError != nil {
		return RemoteTrackingInfo{}, probeError
	}
	if !underVersionControl {
		return RemoteTrackingInfo{}, nil
	}

	trackingInfo := RemoteTrackingInfo{HasVersionControl: true}

	branchName, branchError := inspector.currentBranch(executionContext, trimmedMirrorPath)
	if branchError != nil {
		return RemoteTrackingInfo{}, branchError
	}
	if len(branchName) == 0 {
		return trackingInfo, nil
	}
	trackingInfo.BranchName = branchName

	remoteName, remoteError := inspector.trackingRemote(executionContext, trimmedMirrorPath)
	if remoteError != nil {
		return RemoteTrackingInfo{}, remoteError
	}
	if len(remoteName) == 0 {
		return trackingInfo, nil
	}
	trackingInfo.RemoteName = remoteName

	remoteURL, urlError := inspector.remoteFetchURL(executionContext, trimmedMirrorPath, remoteName)
	if urlError != nil {
		return RemoteTrackingInfo{}, urlError
	}
	trackingInfo.RemoteURL = remoteURL

	return trackingInfo, nil
}

func (inspector *Inspector) probeVersionControl(executionContext context.Context, mirrorPath string) (bool, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant},
		WorkingDirectory: mirrorPath,
	})
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeAffirmativeConstant, nil
}

func (inspector *Inspector) currentBranch(executionContext context.Context, mirrorPath string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: mirrorPath,
	})
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			// Unborn HEAD: the query fails until the first commit exists.
			return "", nil
		}
		return "", executionError
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if branchName == detachedHeadBranchSentinelConstant {
		return "", nil
	}
	return branchName, nil
}

func (inspector *Inspector) trackingRemote(executionContext context.Context, mirrorPath string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitSymbolicFullNameFlagConstant, gitUpstreamReferenceConstant},
		WorkingDirectory: mirrorPath,
	})
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			// No upstream configured for the current branch.
			return "", nil
		}
		return "", executionError
	}

	upstreamReference := strings.TrimSpace(executionResult.StandardOutput)
	separatorIndex := strings.Index(upstreamReference, trackingReferenceSeparatorConstant)
	if separatorIndex <= 0 {
		return "", nil
	}
	return upstreamReference[:separatorIndex], nil
}

func (inspector *Inspector) remoteFetchURL(executionContext context.Context, mirrorPath string, remoteName string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: mirrorPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(remoteURLResolutionTemplateConstant, remoteName, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}
