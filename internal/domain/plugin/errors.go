package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrNilPlugin indicates a nil plugin was provided.
	ErrNilPlugin = errors.New("plugin cannot be nil")
	// ErrEmptyPluginName indicates a plugin name was empty.
	ErrEmptyPluginName = errors.New("plugin name cannot be empty")
)

// DuplicateRegistrationError indicates a plugin name is already registered.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("plugin %q already registered", e.Name)
}

// IsDuplicateRegistration returns true if the error indicates a duplicate registration.
func IsDuplicateRegistration(err error) bool {
	var dupErr *DuplicateRegistrationError
	return errors.As(err, &dupErr)
}

// CapacityExceededError indicates the registry is at its configured ceiling.
type CapacityExceededError struct {
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("plugin registry is full (limit %d)", e.Limit)
}

// IsCapacityExceeded returns true if the error indicates the registry is full.
func IsCapacityExceeded(err error) bool {
	var capErr *CapacityExceededError
	return errors.As(err, &capErr)
}

// MissingDependencyError indicates required dependencies are not registered.
type MissingDependencyError struct {
	Plugin  string
	Missing []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin %q has unmet required dependencies: %s",
		e.Plugin, strings.Join(e.Missing, ", "))
}

// IsMissingDependency returns true if the error indicates unmet dependencies.
func IsMissingDependency(err error) bool {
	var missErr *MissingDependencyError
	return errors.As(err, &missErr)
}

// DependencyCycleError indicates a dependency cycle was detected.
type DependencyCycleError struct {
	Cycle []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// IsDependencyCycle returns true if the error indicates a dependency cycle.
func IsDependencyCycle(err error) bool {
	var cycleErr *DependencyCycleError
	return errors.As(err, &cycleErr)
}

// IncompatibleVersionError indicates a dependency's version violates a constraint.
type IncompatibleVersionError struct {
	Plugin     string
	Dependency string
	Reason     string
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("plugin %q is incompatible with %q: %s",
		e.Plugin, e.Dependency, e.Reason)
}

// IsIncompatibleVersion returns true if the error indicates a version conflict.
func IsIncompatibleVersion(err error) bool {
	var verErr *IncompatibleVersionError
	return errors.As(err, &verErr)
}

// DependentsExistError indicates removal is blocked by registered dependents.
type DependentsExistError struct {
	Name       string
	Dependents []string
}

func (e *DependentsExistError) Error() string {
	return fmt.Sprintf("plugin %q cannot be removed: required by %s",
		e.Name, strings.Join(e.Dependents, ", "))
}

// IsDependentsExist returns true if the error indicates blocking dependents.
func IsDependentsExist(err error) bool {
	var depErr *DependentsExistError
	return errors.As(err, &depErr)
}

// NotFoundError indicates the named plugin is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plugin %q not registered", e.Name)
}

// IsNotFound returns true if the error indicates an unknown plugin.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// HookPhase identifies which lifecycle hook failed.
type HookPhase string

const (
	// PhaseInstall is the registration hook.
	PhaseInstall HookPhase = "install"
	// PhaseUninstall is the removal hook.
	PhaseUninstall HookPhase = "uninstall"
)

// HookFailureError wraps an error raised by an install or uninstall hook.
type HookFailureError struct {
	Plugin string
	Phase  HookPhase
	Err    error
}

func (e *HookFailureError) Error() string {
	return fmt.Sprintf("plugin %q %s hook failed: %v", e.Plugin, e.Phase, e.Err)
}

func (e *HookFailureError) Unwrap() error {
	return e.Err
}

// IsHookFailure returns true if the error originated in a lifecycle hook.
func IsHookFailure(err error) bool {
	var hookErr *HookFailureError
	return errors.As(err, &hookErr)
}

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Add adds an error message to the collection.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// Addf adds a formatted error message to the collection.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// IsValidationError returns true if the error is a validation error.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
