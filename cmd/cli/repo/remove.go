package repo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torvik/specmirror/internal/mirrors/lifecycle"
)

const (
	removeUseConstant                    = "remove NAME"
	removeShortDescriptionConstant       = "Delete a mirror from the registry"
	removeLongDescriptionConstant        = "remove deletes the named mirror directory and everything beneath it. The mirror must exist; the deletion is irreversible."
	removeSuccessMessageTemplateConstant = "Removed repo `%s`\n"
)

func (builder *CommandGroupBuilder) buildRemoveCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   removeUseConstant,
		Short: removeShortDescriptionConstant,
		Long:  removeLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runRemoveCommand,
	}, nil
}

func (builder *CommandGroupBuilder) runRemoveCommand(command *cobra.Command, arguments []string) error {
	commandRuntime, runtimeError := builder.resolveRuntime()
	if runtimeError != nil {
		return runtimeError
	}

	lifecycleService, serviceError := lifecycle.NewService(lifecycle.Dependencies{
		GitExecutor: commandRuntime.executor,
		Registry:    commandRuntime.mirrorRegistry,
		FileSystem:  commandRuntime.fileSystem,
		Logger:      commandRuntime.logger,
	})
	if serviceError != nil {
		return serviceError
	}

	mirrorName := argumentAt(arguments, 0)
	if removeError := lifecycleService.Remove(command.Context(), mirrorName); removeError != nil {
		return removeError
	}

	fmt.Fprintf(commandRuntime.output, removeSuccessMessageTemplateConstant, mirrorName)
	return nil
}
