package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/torvik/specmirror/internal/execshell"
	"github.com/torvik/specmirror/internal/mirrors/shared"
	"github.com/torvik/specmirror/internal/registry"
)

const (
	gitExecutorMissingMessageConstant    = "git executor not configured"
	registryMissingMessageConstant       = "mirror registry not configured"
	fileSystemMissingMessageConstant     = "filesystem not configured"
	addUsageMessageConstant              = "repo add NAME URL [BRANCH]"
	removeUsageMessageConstant           = "repo remove NAME"
	registryRootCreationTemplateConstant = "failed to prepare registry root: %w"
	cloneFailureTemplateConstant         = "failed to clone %s: %w"
	checkoutFailureTemplateConstant      = "failed to check out branch %q: %w"
	removalFailureTemplateConstant       = "failed to remove the %q repo: %w"
	gitCloneSubcommandConstant           = "clone"
	gitCheckoutSubcommandConstant        = "checkout"
	gitPullSubcommandConstant            = "pull"
	gitPullFastForwardFlagConstant       = "--ff-only"
	addCompletedMessageConstant          = "mirror added"
	updateAttemptMessageConstant         = "updating mirror"
	updateFailedMessageConstant          = "mirror update failed"
	removeCompletedMessageConstant       = "mirror removed"
	logFieldMirrorNameConstant           = "mirror_name"
	logFieldMirrorPathConstant           = "mirror_path"
	logFieldRemoteURLConstant            = "remote_url"
)

// ErrGitExecutorNotConfigured indicates the service was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRegistryNotConfigured indicates the service was built without a registry.
var ErrRegistryNotConfigured = errors.New(registryMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the service was built without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// Dependencies enumerates the collaborators required by the lifecycle service.
type Dependencies struct {
	GitExecutor          shared.GitExecutor
	Registry             *registry.Registry
	FileSystem           registry.FileSystem
	CompatibilityChecker shared.CompatibilityChecker
	Logger               *zap.Logger
}

// AddOptions configures the creation of a new mirror.
type AddOptions struct {
	Name   string
	URL    string
	Branch string
}

// UpdateOptions selects which mirrors to update; an empty name updates all.
type UpdateOptions struct {
	Name string
}

// MirrorFailure couples a mirror name with the error that stopped its update.
type MirrorFailure struct {
	MirrorName string
	Failure    error
}

// UpdateResult reports which mirrors were updated and which could not be.
type UpdateResult struct {
	Updated []string
	Failed  []MirrorFailure
}

// Service performs mirror add, update, and remove operations.
type Service struct {
	executor             shared.GitExecutor
	mirrorRegistry       *registry.Registry
	fileSystem           registry.FileSystem
	compatibilityChecker shared.CompatibilityChecker
	logger               *zap.Logger
}

// NewService validates dependencies and constructs a lifecycle Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	serviceLogger := dependencies.Logger
	if serviceLogger == nil {
		serviceLogger = zap.NewNop()
	}

	return &Service{
		executor:             dependencies.GitExecutor,
		mirrorRegistry:       dependencies.Registry,
		fileSystem:           dependencies.FileSystem,
		compatibilityChecker: dependencies.CompatibilityChecker,
		logger:               serviceLogger,
	}, nil
}

// Add clones the remote repository into the registry as a new named mirror.
//
// When a branch is supplied it is checked out inside the fresh clone. The
// compatibility hook runs only after every git step succeeded.
func (service *Service) Add(executionContext context.Context, options AddOptions) (registry.Mirror, error) {
	trimmedName := strings.TrimSpace(options.Name)
	trimmedURL := strings.TrimSpace(options.URL)
	if len(trimmedName) == 0 || len(trimmedURL) == 0 {
		return registry.Mirror{}, shared.NewUsageError(addUsageMessageConstant)
	}

	if rootError := service.mirrorRegistry.EnsureRoot(); rootError != nil {
		return registry.Mirror{}, fmt.Errorf(registryRootCreationTemplateConstant, rootError)
	}

	newMirror := service.mirrorRegistry.Resolve(trimmedName)

	if _, cloneError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCloneSubcommandConstant, trimmedURL, trimmedName},
		WorkingDirectory: service.mirrorRegistry.RootPath(),
	}); cloneError != nil {
		return registry.Mirror{}, fmt.Errorf(cloneFailureTemplateConstant, trimmedURL, cloneError)
	}

	trimmedBranch := strings.TrimSpace(options.Branch)
	if len(trimmedBranch) > 0 {
		if _, checkoutError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{gitCheckoutSubcommandConstant, trimmedBranch},
			WorkingDirectory: newMirror.Path,
		}); checkoutError != nil {
			return registry.Mirror{}, fmt.Errorf(checkoutFailureTemplateConstant, trimmedBranch, checkoutError)
		}
	}

	if service.compatibilityChecker != nil {
		service.compatibilityChecker.CheckCompatibility(newMirror.Path)
	}

	service.logger.Info(
		addCompletedMessageConstant,
		zap.String(logFieldMirrorNameConstant, newMirror.Name),
		zap.String(logFieldMirrorPathConstant, newMirror.Path),
		zap.String(logFieldRemoteURLConstant, trimmedURL),
	)

	return newMirror, nil
}

// Update fast-forwards one mirror or, when no name is supplied, every
// registered mirror. A failing mirror never prevents the remaining mirrors
// from being attempted.
func (service *Service) Update(executionContext context.Context, options UpdateOptions) (UpdateResult, error) {
	targetMirrors, targetsError := service.resolveUpdateTargets(options)
	if targetsError != nil {
		return UpdateResult{}, targetsError
	}

	var updateResult UpdateResult
	for _, targetMirror := range targetMirrors {
		service.logger.Debug(updateAttemptMessageConstant, zap.String(logFieldMirrorNameConstant, targetMirror.Name))

		_, pullError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{gitPullSubcommandConstant, gitPullFastForwardFlagConstant},
			WorkingDirectory: targetMirror.Path,
		})
		if pullError != nil {
			service.logger.Warn(
				updateFailedMessageConstant,
				zap.String(logFieldMirrorNameConstant, targetMirror.Name),
				zap.Error(pullError),
			)
			updateResult.Failed = append(updateResult.Failed, MirrorFailure{MirrorName: targetMirror.Name, Failure: pullError})
			continue
		}
		updateResult.Updated = append(updateResult.Updated, targetMirror.Name)
	}

	return updateResult, nil
}

// Remove deletes the named mirror and everything beneath its directory.
//
// Existence is verified before any mutation; the deletion itself is not
// transactional and a partially removed mirror must be re-added.
func (service *Service) Remove(executionContext context.Context, mirrorName string) error {
	trimmedName := strings.TrimSpace(mirrorName)
	if len(trimmedName) == 0 {
		return shared.NewUsageError(removeUsageMessageConstant)
	}

	targetMirror := service.mirrorRegistry.Resolve(trimmedName)
	if _, statError := service.fileSystem.Stat(targetMirror.Path); statError != nil {
		return shared.NotFoundError{MirrorName: trimmedName}
	}

	if removalError := service.fileSystem.RemoveAll(targetMirror.Path); removalError != nil {
		return fmt.Errorf(removalFailureTemplateConstant, trimmedName, removalError)
	}

	service.logger.Info(
		removeCompletedMessageConstant,
		zap.String(logFieldMirrorNameConstant, trimmedName),
		zap.String(logFieldMirrorPathConstant, targetMirror.Path),
	)

	return nil
}

func (service *Service) resolveUpdateTargets(options UpdateOptions) ([]registry.Mirror, error) {
	trimmedName := strings.TrimSpace(options.Name)
	if len(trimmedName) > 0 {
		targetMirror := service.mirrorRegistry.Resolve(trimmedName)
		if _, statError := service.fileSystem.Stat(targetMirror.Path); statError != nil {
			return nil, shared.NotFoundError{MirrorName: trimmedName}
		}
		return []registry.Mirror{targetMirror}, nil
	}
	return service.mirrorRegistry.List()
}
