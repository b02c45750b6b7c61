package settingserr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindConfig covers malformed documents, unknown enum variants, missing
	// fields and type mismatches.
	KindConfig Kind = iota + 1
	// KindEnvironment covers an environment selector that is set but unusable.
	KindEnvironment
	// KindFile covers unreadable sources and an undeterminable working directory.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindEnvironment:
		return "environment"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrConfig      = errors.New("invalid configuration")
	ErrEnvironment = errors.New("invalid environment")
	ErrFile        = errors.New("configuration file error")
)

// Error is the unified settings error.
type Error struct {
	Kind Kind
	// Path is the dotted field path for schema failures or the file path
	// for file failures. Empty when not applicable.
	Path string
	// Expected names the expected type for schema failures.
	Expected string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		switch {
		case e.Path != "" && e.Expected != "":
			return fmt.Sprintf("%s: %s (expected %s): %v", ErrConfig, e.Path, e.Expected, e.Err)
		case e.Path != "":
			return fmt.Sprintf("%s: %s: %v", ErrConfig, e.Path, e.Err)
		default:
			return fmt.Sprintf("%s: %v", ErrConfig, e.Err)
		}
	case KindEnvironment:
		return fmt.Sprintf("%s: %v", ErrEnvironment, e.Err)
	case KindFile:
		if e.Path != "" {
			return fmt.Sprintf("%s: %s: %v", ErrFile, e.Path, e.Err)
		}
		return fmt.Sprintf("%s: %v", ErrFile, e.Err)
	default:
		return fmt.Sprintf("settings error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrEnvironment:
		return e.Kind == KindEnvironment
	case ErrFile:
		return e.Kind == KindFile
	}
	return false
}

func Config(err error) *Error {
	return &Error{Kind: KindConfig, Err: err}
}

// Field reports a schema failure at path.
func Field(path, expected string, err error) *Error {
	return &Error{Kind: KindConfig, Path: path, Expected: expected, Err: err}
}

func Missing(path, expected string) *Error {
	return Field(path, expected, errors.New("missing field"))
}

// Mismatch reports a value whose shape cannot be decoded into expected.
func Mismatch(path, expected string, got any) *Error {
	return Field(path, expected, fmt.Errorf("invalid type %T", got))
}

func Environment(err error) *Error {
	return &Error{Kind: KindEnvironment, Err: err}
}

func File(path string, err error) *Error {
	return &Error{Kind: KindFile, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
