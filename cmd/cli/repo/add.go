package repo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torvik/specmirror/internal/mirrors/lifecycle"
)

const (
	addUseConstant                    = "add NAME URL [BRANCH]"
	addShortDescriptionConstant       = "Clone a remote spec repository as a new named mirror"
	addLongDescriptionConstant        = "add clones the remote repository into the registry root under NAME and optionally checks out BRANCH inside the fresh mirror."
	addCloningMessageTemplateConstant = "Cloning spec repo `%s` from `%s`\n"
	addSuccessMessageTemplateConstant = "Added repo `%s` at %s\n"
)

func (builder *CommandGroupBuilder) buildAddCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   addUseConstant,
		Short: addShortDescriptionConstant,
		Long:  addLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(3),
		RunE:  builder.runAddCommand,
	}, nil
}

func (builder *CommandGroupBuilder) runAddCommand(command *cobra.Command, arguments []string) error {
	commandRuntime, runtimeError := builder.resolveRuntime()
	if runtimeError != nil {
		return runtimeError
	}

	lifecycleService, serviceError := lifecycle.NewService(lifecycle.Dependencies{
		GitExecutor:          commandRuntime.executor,
		Registry:             commandRuntime.mirrorRegistry,
		FileSystem:           commandRuntime.fileSystem,
		CompatibilityChecker: commandRuntime.compatibilityChecker,
		Logger:               commandRuntime.logger,
	})
	if serviceError != nil {
		return serviceError
	}

	addOptions := lifecycle.AddOptions{
		Name:   argumentAt(arguments, 0),
		URL:    argumentAt(arguments, 1),
		Branch: argumentAt(arguments, 2),
	}

	if len(addOptions.Name) > 0 && len(addOptions.URL) > 0 {
		fmt.Fprintf(commandRuntime.output, addCloningMessageTemplateConstant, addOptions.Name, addOptions.URL)
	}

	addedMirror, addError := lifecycleService.Add(command.Context(), addOptions)
	if addError != nil {
		return addError
	}

	fmt.Fprintf(commandRuntime.output, addSuccessMessageTemplateConstant, addedMirror.Name, addedMirror.Path)
	return nil
}
