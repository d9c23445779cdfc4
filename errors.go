package coredata

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the exporter.
var (
	// ErrInvalidArgument is returned when a nil value is passed where a
	// non-nil value is required.
	ErrInvalidArgument = errors.New("coredata: invalid argument")

	// ErrNotFound is returned when a key or a back-reference is requested
	// for an object that was never registered or visited.
	ErrNotFound = errors.New("coredata: not found")

	// ErrAmbiguous is returned when a back-reference is requested for an
	// object that was reached under more than one distinct parent.
	ErrAmbiguous = errors.New("coredata: ambiguous result")

	// ErrInvalidConfig is returned when an option or configuration file
	// carries an unusable value.
	ErrInvalidConfig = errors.New("coredata: invalid configuration")
)

// InvalidArgumentError reports a rejected argument.
type InvalidArgumentError struct {
	Arg    string // Name of the argument (e.g. "root", "item")
	Reason string // Optional detail
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("coredata: invalid argument %q: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("coredata: invalid argument %q: must not be nil", e.Arg)
}

// Is reports whether the target error matches InvalidArgumentError.
func (e *InvalidArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NewInvalidArgumentError returns a new InvalidArgumentError for a nil argument.
func NewInvalidArgumentError(arg string) *InvalidArgumentError {
	return &InvalidArgumentError{Arg: arg}
}

// NewInvalidArgumentErrorf returns a new InvalidArgumentError with a formatted reason.
func NewInvalidArgumentErrorf(arg, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Arg: arg, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument returns true if the error is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidArgument)
}

// NotFoundKind distinguishes the failure cases of a lookup.
type NotFoundKind int

const (
	// NotFoundType means no instance of the type was ever registered.
	NotFoundType NotFoundKind = iota + 1
	// NotFoundInstance means the type is known but this instance is not.
	NotFoundInstance
	// NotFoundNode means the object was never visited during a walk.
	NotFoundNode
)

// String returns the kind name.
func (k NotFoundKind) String() string {
	switch k {
	case NotFoundType:
		return "type"
	case NotFoundInstance:
		return "instance"
	case NotFoundNode:
		return "node"
	default:
		return "unknown"
	}
}

// NotFoundError represents a failed lookup.
type NotFoundError struct {
	Kind  NotFoundKind
	Label string // Type name of the requested object
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	switch e.Kind {
	case NotFoundType:
		return fmt.Sprintf("coredata: there are no objects of type %s defined", e.Label)
	case NotFoundInstance:
		return fmt.Sprintf("coredata: the given %s does not exist in the collection", e.Label)
	case NotFoundNode:
		return fmt.Sprintf("coredata: could not find the given %s in the graph", e.Label)
	default:
		return fmt.Sprintf("coredata: %s not found", e.Label)
	}
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// NewNotFoundError returns a new NotFoundError of the given kind.
func NewNotFoundError(kind NotFoundKind, label string) *NotFoundError {
	return &NotFoundError{Kind: kind, Label: label}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotFoundKindOf returns the kind of a NotFoundError in the chain, or 0.
func NotFoundKindOf(err error) NotFoundKind {
	var e *NotFoundError
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// AmbiguousError represents a back-reference that cannot be resolved
// to a single parent.
type AmbiguousError struct {
	Label   string // Type name of the requested object
	Parents int    // Number of distinct parents found
}

// Error returns the error string.
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("coredata: found %d distinct parents for the given %s in the graph", e.Parents, e.Label)
}

// Is reports whether the target error matches AmbiguousError.
func (e *AmbiguousError) Is(err error) bool {
	return err == ErrAmbiguous
}

// NewAmbiguousError returns a new AmbiguousError.
func NewAmbiguousError(label string, parents int) *AmbiguousError {
	return &AmbiguousError{Label: label, Parents: parents}
}

// IsAmbiguous returns true if the error is an AmbiguousError.
func IsAmbiguous(err error) bool {
	if err == nil {
		return false
	}
	var e *AmbiguousError
	return errors.As(err, &e) || errors.Is(err, ErrAmbiguous)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("coredata: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("coredata: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidConfig)
}
