package errors

import (
	"fmt"

	"github.com/toyz/markgen/internal/models"
)

// SyntaxError represents a malformed marker comment
type SyntaxError struct {
	*BaseError
	Token    string // offending token, if any
	Position int    // byte offset inside the comment
}

// NewSyntaxErrorWithToken creates a syntax error pointing at a token
func NewSyntaxErrorWithToken(message, token string, position int) *SyntaxError {
	err := &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
		Token:     token,
		Position:  position,
	}
	err.WithContext("token", token)
	err.WithContext("position", position)
	return err
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc models.SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// GenerationError represents a failure while producing a generated unit
type GenerationError struct {
	*BaseError
	Target string // qualified emission target
	Stage  string // render, format or write
}

// NewGenerationError creates a generation error for a target and stage
func NewGenerationError(target, stage string, cause error) *GenerationError {
	return &GenerationError{
		BaseError: Wrap(GenerationErrorCode, fmt.Sprintf("failed to %s %s", stage, target), cause),
		Target:    target,
		Stage:     stage,
	}
}

// NewEmissionIOFailure wraps a write failure of a generated unit
func NewEmissionIOFailure(target string, cause error) *GenerationError {
	err := &GenerationError{
		BaseError: Wrap(EmissionIOFailureCode, fmt.Sprintf("Could not write source for %s", target), cause),
		Target:    target,
		Stage:     "write",
	}
	err.WithSuggestions(
		"Check write permissions for the output directory",
		"Verify there's enough disk space",
	)
	return err
}

// NewConfigurationMissing reports a required option that was not supplied
func NewConfigurationMissing(option string) *BaseError {
	return Newf(ConfigurationMissingCode, "No option %s passed to processor", option).
		WithContext("option", option).
		WithSuggestion(fmt.Sprintf("Pass --target or set %q in markgen.yaml", "target"))
}

// NewInvalidTarget reports an emission target that cannot name a Go type
func NewInvalidTarget(target, reason string) *BaseError {
	return Newf(ConfigurationErrorCode, "invalid target %q: %s", target, reason).
		WithContext("target", target).
		WithSuggestion("Targets look like example.com/app/registry.Handlers")
}
