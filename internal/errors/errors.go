// Package errors provides sentinel errors and custom error types for the apicommit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrConfiguration indicates a required request field is missing
	ErrConfiguration = errors.New("missing configuration")

	// ErrRefNotFound indicates that an explicitly named base branch does not exist
	ErrRefNotFound = errors.New("ref not found")

	// ErrFileNotFound indicates that a requested path does not exist on disk
	ErrFileNotFound = errors.New("file not found")

	// ErrRefResolution indicates that a submodule HEAD could not be resolved
	// through the loose-ref and packed-refs chain
	ErrRefResolution = errors.New("ref resolution failed")

	// ErrRefMissing indicates that the remote reported the named reference
	// as absent. It is the only remote failure used for control flow: an
	// update that fails with ErrRefMissing falls back to ref creation.
	ErrRefMissing = errors.New("remote reference does not exist")
)

// ConfigurationError represents a request missing a required field
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Is returns true if the target error is ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(field string) *ConfigurationError {
	return &ConfigurationError{Field: field}
}

// RefNotFoundError represents an explicitly named base branch that does not exist
type RefNotFoundError struct {
	Branch string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.Branch)
}

// Is returns true if the target error is ErrRefNotFound
func (e *RefNotFoundError) Is(target error) bool {
	return target == ErrRefNotFound
}

// NewRefNotFoundError creates a new RefNotFoundError
func NewRefNotFoundError(branch string) *RefNotFoundError {
	return &RefNotFoundError{Branch: branch}
}

// FileNotFoundError represents a requested addition or deletion path missing on disk
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("path %s does not exist", e.Path)
}

// Is returns true if the target error is ErrFileNotFound
func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// NewFileNotFoundError creates a new FileNotFoundError
func NewFileNotFoundError(path string) *FileNotFoundError {
	return &FileNotFoundError{Path: path}
}

// RefResolutionError represents a submodule ref that could not be resolved
// from either its loose ref file or packed-refs
type RefResolutionError struct {
	Ref string
}

func (e *RefResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve ref %s", e.Ref)
}

// Is returns true if the target error is ErrRefResolution
func (e *RefResolutionError) Is(target error) bool {
	return target == ErrRefResolution
}

// NewRefResolutionError creates a new RefResolutionError
func NewRefResolutionError(ref string) *RefResolutionError {
	return &RefResolutionError{Ref: ref}
}

// RefMissingError wraps a remote API error that reported the named
// reference as absent. It carries the underlying error for diagnostics
// while exposing the structured ErrRefMissing signal.
type RefMissingError struct {
	Ref string
	Err error
}

func (e *RefMissingError) Error() string {
	return fmt.Sprintf("reference %s does not exist on the remote", e.Ref)
}

// Is returns true if the target error is ErrRefMissing
func (e *RefMissingError) Is(target error) bool {
	return target == ErrRefMissing
}

func (e *RefMissingError) Unwrap() error {
	return e.Err
}

// NewRefMissingError creates a new RefMissingError
func NewRefMissingError(ref string, err error) *RefMissingError {
	return &RefMissingError{Ref: ref, Err: err}
}
