package repo

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/torvik/specmirror/internal/mirrors/compat"
	"github.com/torvik/specmirror/internal/mirrors/dependencies"
	"github.com/torvik/specmirror/internal/mirrors/shared"
	"github.com/torvik/specmirror/internal/registry"
	"github.com/torvik/specmirror/internal/utils"
)

// commandRuntime bundles the resolved collaborators shared by the subcommands.
type commandRuntime struct {
	logger               *zap.Logger
	executor             shared.GitExecutor
	mirrorRegistry       *registry.Registry
	fileSystem           registry.FileSystem
	output               io.Writer
	compatibilityChecker shared.CompatibilityChecker
}

func (builder *CommandGroupBuilder) resolveRuntime() (*commandRuntime, error) {
	commandLogger := builder.resolveLogger()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, commandLogger)
	if executorError != nil {
		return nil, executorError
	}

	mirrorRegistry, registryError := registry.NewRegistry(builder.resolveRegistryRoot())
	if registryError != nil {
		return nil, registryError
	}

	commandOutput := builder.Output
	if commandOutput == nil {
		commandOutput = utils.NewFlushingWriter(os.Stdout)
	}

	resolvedFileSystem := dependencies.ResolveFileSystem(nil)

	return &commandRuntime{
		logger:               commandLogger,
		executor:             gitExecutor,
		mirrorRegistry:       mirrorRegistry,
		fileSystem:           resolvedFileSystem,
		output:               commandOutput,
		compatibilityChecker: compat.NewChecker(resolvedFileSystem, commandOutput, builder.ToolVersion),
	}, nil
}

func (builder *CommandGroupBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			return providedLogger
		}
	}
	return zap.NewNop()
}

func (builder *CommandGroupBuilder) resolveRegistryRoot() string {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		providedConfiguration := builder.ConfigurationProvider()
		if len(strings.TrimSpace(providedConfiguration.Root)) > 0 {
			configuration = providedConfiguration
		}
	}
	return utils.NewHomeExpander().Expand(strings.TrimSpace(configuration.Root))
}

func argumentAt(arguments []string, argumentIndex int) string {
	if argumentIndex >= len(arguments) {
		return ""
	}
	return arguments[argumentIndex]
}
