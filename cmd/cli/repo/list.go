package repo

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torvik/specmirror/internal/mirrors/inspect"
)

const (
	listUseConstant                   = "list"
	listShortDescriptionConstant      = "Show every registered mirror and its tracking state"
	listLongDescriptionConstant       = "list prints each registered mirror with its current branch, tracking remote, and fetch URL, derived on demand from the mirror's version control metadata."
	countFlagNameConstant             = "count"
	countFlagDescriptionConstant      = "Additionally print the total number of registered mirrors"
	listLineSuffixConstant            = "\n"
	listEntrySeparatorConstant        = "\n"
	repoCountSingularTemplateConstant = "\n%d repo\n"
	repoCountPluralTemplateConstant   = "\n%d repos\n"
)

func (builder *CommandGroupBuilder) buildListCommand() (*cobra.Command, error) {
	listCommand := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescriptionConstant,
		Long:  listLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runListCommand,
	}

	listCommand.Flags().Bool(countFlagNameConstant, false, countFlagDescriptionConstant)

	return listCommand, nil
}

func (builder *CommandGroupBuilder) runListCommand(command *cobra.Command, arguments []string) error {
	countRequested, countFlagError := command.Flags().GetBool(countFlagNameConstant)
	if countFlagError != nil {
		return countFlagError
	}

	commandRuntime, runtimeError := builder.resolveRuntime()
	if runtimeError != nil {
		return runtimeError
	}

	mirrorInspector, inspectorError := inspect.NewInspector(commandRuntime.executor)
	if inspectorError != nil {
		return inspectorError
	}

	registeredMirrors, listError := commandRuntime.mirrorRegistry.List()
	if listError != nil {
		return listError
	}

	for mirrorIndex, registeredMirror := range registeredMirrors {
		if mirrorIndex > 0 {
			fmt.Fprint(commandRuntime.output, listEntrySeparatorConstant)
		}

		trackingInfo, describeError := mirrorInspector.Describe(command.Context(), registeredMirror.Path)
		if describeError != nil {
			return describeError
		}

		statusLines := inspect.FormatStatusLines(registeredMirror.Name, registeredMirror.Path, trackingInfo)
		fmt.Fprint(commandRuntime.output, strings.Join(statusLines, listLineSuffixConstant)+listLineSuffixConstant)
	}

	if countRequested {
		countTemplate := repoCountPluralTemplateConstant
		if len(registeredMirrors) == 1 {
			countTemplate = repoCountSingularTemplateConstant
		}
		fmt.Fprintf(commandRuntime.output, countTemplate, len(registeredMirrors))
	}

	return nil
}
