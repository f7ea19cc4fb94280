package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteSurfacesAssemblyFailure(testInstance *testing.T) {
	application := NewApplication()
	require.NoError(testInstance, application.assemblyError)

	assemblyFailure := errors.New("subcommand wiring failed")
	application.assemblyError = assemblyFailure

	executionError := application.Execute()
	require.ErrorIs(testInstance, executionError, assemblyFailure)
}
