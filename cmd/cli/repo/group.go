package repo

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torvik/specmirror/internal/mirrors/shared"
)

const (
	groupUseConstant              = "repo"
	groupShortDescriptionConstant = "Manage the registered spec repository mirrors"
	groupLongDescriptionConstant  = "repo groups the subcommands that create, update, remove, list, and lint the local mirrors of specification repositories."
	defaultRegistryRootConstant   = "~/.specmirror/repos"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Configuration stores the persisted settings for the repo command family.
type Configuration struct {
	Root string `mapstructure:"root"`
}

// DefaultConfiguration returns the built-in repo settings.
func DefaultConfiguration() Configuration {
	return Configuration{Root: defaultRegistryRootConstant}
}

// CommandGroupBuilder assembles the repo command hierarchy.
//
// GitExecutor and Output are optional; tests inject doubles while production
// wiring falls back to the shell-backed executor and standard output.
type CommandGroupBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() Configuration
	GitExecutor           shared.GitExecutor
	Output                io.Writer
	ToolVersion           string
}

// Build constructs the repo command group with all subcommands attached.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
	}

	subcommandBuilders := []func() (*cobra.Command, error){
		builder.buildAddCommand,
		builder.buildUpdateCommand,
		builder.buildRemoveCommand,
		builder.buildListCommand,
		builder.buildLintCommand,
	}

	for _, buildSubcommand := range subcommandBuilders {
		subcommand, buildError := buildSubcommand()
		if buildError != nil {
			return nil, buildError
		}
		groupCommand.AddCommand(subcommand)
	}

	return groupCommand, nil
}
