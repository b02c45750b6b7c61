package environment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
)

// Variable is the process environment variable selecting the environment.
const Variable = "APP_ENVIRONMENT"

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"
)

// Default is used when the selector variable is unset.
const Default = Local

// All lists the recognized environments.
func All() []Environment {
	return []Environment{Local, Production}
}

func (e Environment) String() string {
	return string(e)
}

// Validate checks e against the closed set of recognized environments.
func (e Environment) Validate() error {
	return validation.Validate(string(e),
		validation.Required,
		validation.In(string(Local), string(Production)),
	)
}

// Parse decodes an environment name. Only the exact lower-case names match.
func Parse(value string) (Environment, error) {
	env := Environment(value)
	if err := env.Validate(); err != nil {
		return "", fmt.Errorf("unrecognized environment %q (want one of %s): %w", value, names(), err)
	}
	return env, nil
}

func names() string {
	all := All()
	out := make([]string, len(all))
	for i, env := range all {
		out[i] = string(env)
	}
	return strings.Join(out, ", ")
}

// LookupFunc reads one named environment variable.
type LookupFunc func(key string) (string, bool)

// Resolver reads the selector variable on every call; nothing is cached.
type Resolver struct {
	lookup   LookupFunc
	variable string
}

// NewResolver creates a resolver reading Variable through lookup. A nil
// lookup falls back to os.LookupEnv.
func NewResolver(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup, variable: Variable}
}

// Resolve returns the current environment. An unset selector yields
// Default. Any value that is set, including the empty string, must be a
// recognized name in valid UTF-8, otherwise it is an environment error.
func (r *Resolver) Resolve() (Environment, error) {
	value, ok := r.lookup(r.variable)
	if !ok {
		return Default, nil
	}

	if !utf8.ValidString(value) {
		return "", settingserr.Environment(fmt.Errorf("%s: %w", r.variable, errNotUnicode))
	}

	env, err := Parse(value)
	if err != nil {
		return "", settingserr.Environment(fmt.Errorf("%s: %w", r.variable, err))
	}

	return env, nil
}

var errNotUnicode = errors.New("value is not valid unicode")
