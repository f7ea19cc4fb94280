package dependencies

import (
	"go.uber.org/zap"

	"github.com/torvik/specmirror/internal/execshell"
	"github.com/torvik/specmirror/internal/mirrors/shared"
	"github.com/torvik/specmirror/internal/registry"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing registry.FileSystem) registry.FileSystem {
	if existing != nil {
		return existing
	}
	return registry.OSFileSystem{}
}
