// Package location computes where configuration sources live relative to
// the process working directory. It never checks that files exist.
package location

import (
	"os"
	"path/filepath"

	"github.com/angeloszaimis/oms-envcheck/internal/environment"
	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
)

const (
	DirectoryName = "configuration"
	BaseName      = "base"
	Extension     = ".yaml"
)

// Locator derives source paths from the working directory.
type Locator struct {
	getwd func() (string, error)
}

// New creates a Locator. A nil getwd falls back to os.Getwd.
func New(getwd func() (string, error)) *Locator {
	if getwd == nil {
		getwd = os.Getwd
	}
	return &Locator{getwd: getwd}
}

// Dir returns <cwd>/configuration.
func (l *Locator) Dir() (string, error) {
	wd, err := l.getwd()
	if err != nil {
		return "", settingserr.File("", err)
	}
	return filepath.Join(wd, DirectoryName), nil
}

// BasePath returns the environment-independent source path.
func (l *Locator) BasePath() (string, error) {
	dir, err := l.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, BaseName+Extension), nil
}

// OverlayPath returns the source path selected by env.
func (l *Locator) OverlayPath(env environment.Environment) (string, error) {
	dir, err := l.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, env.String()+Extension), nil
}
