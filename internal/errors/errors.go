package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NotFound indicates a key has no live binding in the graph
	NotFound ErrorCode = "NOT_FOUND"
	// AlreadyRegistered indicates a path is already bound to a live module
	AlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	// DanglingReference indicates an edge names a module that is not in the store
	DanglingReference ErrorCode = "DANGLING_REFERENCE"
	// MetaMismatch indicates structural edges disagree with declared import metadata
	MetaMismatch ErrorCode = "META_MISMATCH"
	// InvalidEdge indicates an edge whose source is an external module
	InvalidEdge ErrorCode = "INVALID_EDGE"
	// InvalidInput indicates a malformed record, option or argument
	InvalidInput ErrorCode = "INVALID_INPUT"
)

// Sentinels for errors.Is comparisons. Match is by code only.
var (
	ErrNotFound          = &GraphError{Code: NotFound}
	ErrAlreadyRegistered = &GraphError{Code: AlreadyRegistered}
	ErrDanglingReference = &GraphError{Code: DanglingReference}
	ErrMetaMismatch      = &GraphError{Code: MetaMismatch}
	ErrInvalidEdge       = &GraphError{Code: InvalidEdge}
	ErrInvalidInput      = &GraphError{Code: InvalidInput}
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Description string `json:"description"`
	Command     string `json:"command,omitempty"`
}

// GraphError represents a graph error with code, message, and suggestions
type GraphError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a GraphError with the suggested fixes registered for its code
func New(code ErrorCode, message string, cause error) *GraphError {
	return &GraphError{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
		cause:          cause,
	}
}

// Newf is New with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *GraphError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	if e.Message == "" {
		return fmt.Sprintf("[%s]", e.Code)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GraphError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a GraphError with the same code
func (e *GraphError) Is(target error) bool {
	t, ok := target.(*GraphError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error
func (e *GraphError) WithDetails(details interface{}) *GraphError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first GraphError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	for err != nil {
		if ge, ok := err.(*GraphError); ok {
			return ge.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NotFound: {
		{
			Description: "List live modules and check the key spelling",
			Command:     "depgraph modules",
		},
	},
	AlreadyRegistered: {
		{Description: "Update the existing module instead of adding it"},
		{Description: "Remove the module first, then add it again"},
	},
	MetaMismatch: {
		{Description: "Declare an import specifier in meta for every dependency, and only for those"},
	},
	DanglingReference: {
		{Description: "Add the referenced module before linking to it"},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
