package registry

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	rootPathRequiredMessageConstant  = "registry root path must be provided"
	registryDirectoryPermissionsMode = 0o755
)

// ErrRootPathRequired indicates the registry was constructed without a root path.
var ErrRootPathRequired = errors.New(rootPathRequiredMessageConstant)

// Mirror identifies a named local mirror of a specification repository.
type Mirror struct {
	Name string
	Path string
}

// Registry enumerates and locates mirrors beneath a configured root directory.
//
// The filesystem listing is the registry: every immediate subdirectory of the
// root is a mirror and its name is the mirror name. No index file exists.
type Registry struct {
	rootPath string
}

// NewRegistry constructs a Registry rooted at the provided directory.
func NewRegistry(rootPath string) (*Registry, error) {
	if len(rootPath) == 0 {
		return nil, ErrRootPathRequired
	}
	return &Registry{rootPath: rootPath}, nil
}

// RootPath returns the directory under which all mirrors live.
func (mirrorRegistry *Registry) RootPath() string {
	return mirrorRegistry.rootPath
}

// EnsureRoot creates the registry root directory when it does not yet exist.
func (mirrorRegistry *Registry) EnsureRoot() error {
	return os.MkdirAll(mirrorRegistry.rootPath, registryDirectoryPermissionsMode)
}

// List enumerates the registered mirrors in directory-enumeration order.
//
// A missing root directory yields an empty registry rather than an error.
func (mirrorRegistry *Registry) List() ([]Mirror, error) {
	directoryEntries, readError := os.ReadDir(mirrorRegistry.rootPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, readError
	}

	var mirrors []Mirror
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		mirrors = append(mirrors, mirrorRegistry.Resolve(directoryEntry.Name()))
	}

	return mirrors, nil
}

// Resolve constructs the Mirror for the provided name without checking existence.
func (mirrorRegistry *Registry) Resolve(mirrorName string) Mirror {
	return Mirror{
		Name: mirrorName,
		Path: filepath.Join(mirrorRegistry.rootPath, mirrorName),
	}
}
