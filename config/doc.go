// Package config resolves the application's settings. It selects the
// environment from APP_ENVIRONMENT, reads configuration/base.yaml and the
// environment's overlay (configuration/local.yaml or
// configuration/production.yaml) relative to the working directory, merges
// the overlay over the base and decodes the result into a typed
// settings.Settings tree.
package config
