package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torvik/specmirror/internal/registry"
)

const (
	testFirstMirrorNameConstant   = "master"
	testSecondMirrorNameConstant  = "private-specs"
	testUnrelatedFileNameConstant = "notes.txt"
	testMissingMirrorNameConstant = "absent"
)

func TestNewRegistryRequiresRootPath(testInstance *testing.T) {
	_, creationError := registry.NewRegistry("")
	require.ErrorIs(testInstance, creationError, registry.ErrRootPathRequired)
}

func TestRegistryListEnumeratesOnlyDirectories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, testFirstMirrorNameConstant), 0o755))
	require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, testSecondMirrorNameConstant), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootDirectory, testUnrelatedFileNameConstant), []byte("ignored"), 0o644))

	mirrorRegistry, creationError := registry.NewRegistry(rootDirectory)
	require.NoError(testInstance, creationError)

	mirrors, listError := mirrorRegistry.List()
	require.NoError(testInstance, listError)
	require.Len(testInstance, mirrors, 2)

	mirrorNames := []string{mirrors[0].Name, mirrors[1].Name}
	require.Contains(testInstance, mirrorNames, testFirstMirrorNameConstant)
	require.Contains(testInstance, mirrorNames, testSecondMirrorNameConstant)
	for _, listedMirror := range mirrors {
		require.Equal(testInstance, filepath.Join(rootDirectory, listedMirror.Name), listedMirror.Path)
	}
}

func TestRegistryListToleratesMissingRoot(testInstance *testing.T) {
	missingRoot := filepath.Join(testInstance.TempDir(), "never-created")

	mirrorRegistry, creationError := registry.NewRegistry(missingRoot)
	require.NoError(testInstance, creationError)

	mirrors, listError := mirrorRegistry.List()
	require.NoError(testInstance, listError)
	require.Empty(testInstance, mirrors)
}

func TestRegistryResolveDoesNotRequireExistence(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	mirrorRegistry, creationError := registry.NewRegistry(rootDirectory)
	require.NoError(testInstance, creationError)

	resolvedMirror := mirrorRegistry.Resolve(testMissingMirrorNameConstant)
	require.Equal(testInstance, testMissingMirrorNameConstant, resolvedMirror.Name)
	require.Equal(testInstance, filepath.Join(rootDirectory, testMissingMirrorNameConstant), resolvedMirror.Path)
}

func TestRegistryEnsureRootCreatesDirectory(testInstance *testing.T) {
	rootDirectory := filepath.Join(testInstance.TempDir(), "repos")

	mirrorRegistry, creationError := registry.NewRegistry(rootDirectory)
	require.NoError(testInstance, creationError)
	require.NoError(testInstance, mirrorRegistry.EnsureRoot())

	rootInfo, statError := os.Stat(rootDirectory)
	require.NoError(testInstance, statError)
	require.True(testInstance, rootInfo.IsDir())
}
