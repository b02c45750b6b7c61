package config

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/angeloszaimis/oms-envcheck/internal/environment"
	"github.com/angeloszaimis/oms-envcheck/internal/location"
	"github.com/angeloszaimis/oms-envcheck/internal/settings"
	"github.com/angeloszaimis/oms-envcheck/internal/source"
)

type options struct {
	lookup environment.LookupFunc
	getwd  func() (string, error)
	fs     afero.Fs
	log    *slog.Logger
}

type Option func(*options)

// WithLookup replaces os.LookupEnv as the source of APP_ENVIRONMENT.
func WithLookup(lookup environment.LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithWorkingDir resolves the configuration directory under dir instead of
// the process working directory.
func WithWorkingDir(dir string) Option {
	return func(o *options) {
		o.getwd = func() (string, error) { return dir, nil }
	}
}

// WithGetwd replaces os.Getwd.
func WithGetwd(getwd func() (string, error)) Option {
	return func(o *options) {
		o.getwd = getwd
	}
}

// WithFs reads configuration files from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger receives debug records about the files read. Without it
// nothing is logged.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Resolution is the outcome of one resolution call.
type Resolution struct {
	Environment environment.Environment
	BasePath    string
	OverlayPath string
	Settings    *settings.Settings
}

// Resolve runs a full resolution: environment, paths, merge, decode. Every
// call re-reads the environment and both files. Errors are always
// *settingserr.Error.
func Resolve(opts ...Option) (*Resolution, error) {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	env, err := environment.NewResolver(o.lookup).Resolve()
	if err != nil {
		return nil, err
	}

	locator := location.New(o.getwd)
	basePath, err := locator.BasePath()
	if err != nil {
		return nil, err
	}
	overlayPath, err := locator.OverlayPath(env)
	if err != nil {
		return nil, err
	}

	o.log.Debug("resolving settings",
		slog.String("environment", env.String()),
		slog.String("base", basePath),
		slog.String("overlay", overlayPath))

	merged, err := source.NewLoader(o.fs, o.log).Load(basePath, overlayPath)
	if err != nil {
		return nil, err
	}

	s, err := settings.Materialize(merged)
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Environment: env,
		BasePath:    basePath,
		OverlayPath: overlayPath,
		Settings:    s,
	}, nil
}

// Load resolves and returns only the settings.
func Load(opts ...Option) (*settings.Settings, error) {
	res, err := Resolve(opts...)
	if err != nil {
		return nil, err
	}
	return res.Settings, nil
}
