// Package jesserrors implements the error taxonomy of §7: every pipeline
// failure mode is a distinct, observable category, grounded on the
// teacher's pkg/errors (CompileError + its ErrorCategory enum).
package jesserrors

import (
	"fmt"
	"go/token"
)

// Category enumerates the §7 error taxonomy.
type Category int

const (
	CategoryParse Category = iota
	CategoryResolve
	CategoryAmbiguity
	CategoryStubPlan
	CategoryCompile
	CategoryTargetMissing
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryParse:
		return "ParseError"
	case CategoryResolve:
		return "ResolveError"
	case CategoryAmbiguity:
		return "AmbiguityError"
	case CategoryStubPlan:
		return "StubPlanError"
	case CategoryCompile:
		return "CompileError"
	case CategoryTargetMissing:
		return "TargetMissing"
	case CategoryInternal:
		return "InternalError"
	default:
		return "Error"
	}
}

// PipelineError is the single error type every pipeline stage returns,
// categorized per §7. It mirrors the teacher's CompileError shape
// (Message/Location/Hint/Category) plus an optional wrapped Cause. It
// carries no Status; the caller maps Category to the §6 Result.status enum.
type PipelineError struct {
	Category Category
	Message  string
	Location token.Pos
	Hint     string
	Cause    error
}

func (e *PipelineError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Category, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Cause }

func newErr(cat Category, pos token.Pos, msg string) *PipelineError {
	return &PipelineError{Category: cat, Location: pos, Message: msg}
}

// NewParseError reports malformed source (§7: -> FAILED_PARSE).
func NewParseError(pos token.Pos, msg string) *PipelineError {
	return newErr(CategoryParse, pos, msg)
}

// NewResolveError reports a classpath-lookup failure (§7: -> FAILED_RESOLVE).
func NewResolveError(pos token.Pos, msg string) *PipelineError {
	return newErr(CategoryResolve, pos, msg)
}

// NewAmbiguityError reports an overload that failOnAmbiguity could not
// tolerate (§4.1, §7: -> FAILED_RESOLVE).
func NewAmbiguityError(pos token.Pos, msg string) *PipelineError {
	return newErr(CategoryAmbiguity, pos, msg)
}

// NewStubPlanError reports an impossible plan. Per §7 this is never fatal:
// IsTerminal reports false for its category. No stage in this module
// constructs one; the Collector and Stubber skip an impossible plan without
// recording an error.
func NewStubPlanError(pos token.Pos, msg string) *PipelineError {
	return newErr(CategoryStubPlan, pos, msg)
}

// NewCompileError wraps the external compiler's non-zero exit (§7: ->
// FAILED_COMPILE).
func NewCompileError(msg string, cause error) *PipelineError {
	e := newErr(CategoryCompile, token.NoPos, msg)
	e.Cause = cause
	return e
}

// NewTargetMissingError reports a successfully compiled slice whose target
// method never made it into the emitted bytecode (§7: ->
// TARGET_METHOD_NOT_EMITTED).
func NewTargetMissingError(msg string) *PipelineError {
	return newErr(CategoryTargetMissing, token.NoPos, msg)
}

// NewInternalError wraps an unexpected failure: a caught stack overflow, an
// OOM, or any other unhandled exception-equivalent (§5, §7: -> INTERNAL_ERROR).
func NewInternalError(msg string, cause error) *PipelineError {
	e := newErr(CategoryInternal, token.NoPos, msg)
	e.Cause = cause
	return e
}

// IsTerminal reports whether a category short-circuits the whole pipeline:
// every category except CategoryStubPlan, which §7 makes non-fatal.
func (c Category) IsTerminal() bool {
	switch c {
	case CategoryParse, CategoryResolve, CategoryAmbiguity, CategoryCompile,
		CategoryTargetMissing, CategoryInternal:
		return true
	default:
		return false
	}
}
