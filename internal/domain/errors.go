package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrValidation    ErrorCode = "VALIDATION_ERROR"
	ErrPersistence   ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewConfigurationError(message string, err error) *DomainError {
	return NewError(ErrConfiguration, message, err)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistence, message, err)
}

// NewBatchValidationError wraps every violation found in a batch.
func NewBatchValidationError(violations ValidationErrors) *DomainError {
	return NewError(ErrValidation, fmt.Sprintf("%d invalid quiz question field(s)", len(violations)), violations)
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Invariant names a rule every stored quiz question must satisfy.
type Invariant string

const (
	InvariantAnswerOption   Invariant = "correct_answer_in_A_to_D"
	InvariantNonBlankText   Invariant = "text_not_blank"
	InvariantPositiveCourse Invariant = "course_id_positive"
)

// Violation describes one broken invariant on one record of a batch.
type Violation struct {
	Index     int       `json:"index"`
	CourseID  int64     `json:"course_id"`
	Field     string    `json:"field"`
	Invariant Invariant `json:"invariant"`
	Value     string    `json:"value"`
	Message   string    `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("record #%d (course %d) %s: %s [%s]", v.Index, v.CourseID, v.Field, v.Message, v.Invariant)
}

// ValidationErrors collects every violation of a batch, in input order.
type ValidationErrors []Violation

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, v := range ve {
		msgs = append(msgs, v.String())
	}
	return strings.Join(msgs, "; ")
}

// Records returns the distinct record indexes that have at least one violation.
func (ve ValidationErrors) Records() []int {
	seen := make(map[int]bool)
	var idx []int
	for _, v := range ve {
		if !seen[v.Index] {
			seen[v.Index] = true
			idx = append(idx, v.Index)
		}
	}
	return idx
}
