package repo

import (
	"github.com/spf13/cobra"

	"github.com/torvik/specmirror/internal/mirrors/health"
	"github.com/torvik/specmirror/internal/mirrors/lint"
	"github.com/torvik/specmirror/internal/mirrors/shared"
)

const (
	lintUseConstant                   = "lint [NAME|DIRECTORY]"
	lintShortDescriptionConstant      = "Validate the specs of one or every registered mirror"
	lintLongDescriptionConstant       = "lint runs the health reporter against the named mirror, an explicit directory, or every registered mirror, and fails only when error-level findings exist after every target has been analyzed and rendered."
	onlyErrorsFlagNameConstant        = "only-errors"
	onlyErrorsFlagDescriptionConstant = "Suppress warning groups and render only error-level findings"
)

func (builder *CommandGroupBuilder) buildLintCommand() (*cobra.Command, error) {
	lintCommand := &cobra.Command{
		Use:   lintUseConstant,
		Short: lintShortDescriptionConstant,
		Long:  lintLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runLintCommand,
	}

	lintCommand.Flags().Bool(onlyErrorsFlagNameConstant, false, onlyErrorsFlagDescriptionConstant)

	return lintCommand, nil
}

func (builder *CommandGroupBuilder) runLintCommand(command *cobra.Command, arguments []string) error {
	onlyErrorsRequested, onlyErrorsFlagError := command.Flags().GetBool(onlyErrorsFlagNameConstant)
	if onlyErrorsFlagError != nil {
		return onlyErrorsFlagError
	}

	commandRuntime, runtimeError := builder.resolveRuntime()
	if runtimeError != nil {
		return runtimeError
	}

	validationAggregator, aggregatorError := lint.NewAggregator(lint.Dependencies{
		Registry:   commandRuntime.mirrorRegistry,
		FileSystem: commandRuntime.fileSystem,
		ReporterFactory: func(mirrorPath string) shared.HealthReporter {
			return health.NewSpecFileReporter(mirrorPath)
		},
		CompatibilityChecker: commandRuntime.compatibilityChecker,
		Output:               commandRuntime.output,
		Logger:               commandRuntime.logger,
	})
	if aggregatorError != nil {
		return aggregatorError
	}

	return validationAggregator.Lint(command.Context(), lint.Options{
		Target:     argumentAt(arguments, 0),
		OnlyErrors: onlyErrorsRequested,
	})
}
