package repo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torvik/specmirror/internal/mirrors/lifecycle"
)

const (
	updateUseConstant                    = "update [NAME]"
	updateShortDescriptionConstant       = "Fast-forward one mirror or every registered mirror"
	updateLongDescriptionConstant        = "update pulls the latest changes into the named mirror, or into every registered mirror when NAME is omitted. A failing mirror never prevents the remaining mirrors from being attempted."
	updateSuccessMessageTemplateConstant = "Updated repo `%s`\n"
	updateFailureMessageTemplateConstant = "Failed to update repo `%s`: %v\n"
)

func (builder *CommandGroupBuilder) buildUpdateCommand() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescriptionConstant,
		Long:  updateLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runUpdateCommand,
	}, nil
}

func (builder *CommandGroupBuilder) runUpdateCommand(command *cobra.Command, arguments []string) error {
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

	targetName := argumentAt(arguments, 0)
	updateResult, updateError := lifecycleService.Update(command.Context(), lifecycle.UpdateOptions{Name: targetName})
	if updateError != nil {
		return updateError
	}

	for _, updatedName := range updateResult.Updated {
		fmt.Fprintf(commandRuntime.output, updateSuccessMessageTemplateConstant, updatedName)
	}
	for _, mirrorFailure := range updateResult.Failed {
		fmt.Fprintf(commandRuntime.output, updateFailureMessageTemplateConstant, mirrorFailure.MirrorName, mirrorFailure.Failure)
	}

	// An explicitly named mirror that failed to update is a hard failure;
	// best-effort semantics apply only to updating the whole registry.
	if len(targetName) > 0 && len(updateResult.Failed) > 0 {
		return updateResult.Failed[0].Failure
	}

	return nil
}
