// Package environment resolves which named environment the process runs
// under. The selector is read through an injected lookup function so tests
// never touch real process state.
package environment
