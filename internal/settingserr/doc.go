// Package settingserr defines the single error type returned by every stage
// of settings resolution. An Error carries one of three kinds (Config,
// Environment, File) together with its originating cause.
package settingserr
