package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_UnwrapAndCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("opening store: %w", NewConfigurationError("storage unreachable", cause))

	assert.Equal(t, ErrConfiguration, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "opening store: storage unreachable: connection refused", err.Error())
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestNewBatchValidationError(t *testing.T) {
	violations := ValidationErrors{
		{Index: 4, CourseID: 3, Field: "correctAnswer", Invariant: InvariantAnswerOption, Value: "E", Message: "must be one of A, B, C, D"},
		{Index: 4, CourseID: 3, Field: "optionC", Invariant: InvariantNonBlankText, Message: "must not be empty"},
		{Index: 9, CourseID: 5, Field: "courseId", Invariant: InvariantPositiveCourse, Message: "must be a positive integer"},
	}

	err := NewBatchValidationError(violations)

	assert.Equal(t, ErrValidation, err.Code)
	var got ValidationErrors
	require.True(t, errors.As(err, &got))
	assert.Len(t, got, 3)
	assert.Equal(t, []int{4, 9}, got.Records())
	assert.Contains(t, err.Error(), "3 invalid quiz question field(s)")
	assert.Contains(t, err.Error(), "record #4 (course 3) correctAnswer: must be one of A, B, C, D [correct_answer_in_A_to_D]")
}

func TestCountByCourse(t *testing.T) {
	qs := []QuizQuestion{{CourseID: 3}, {CourseID: 3}, {CourseID: 10}}
	assert.Equal(t, map[int64]int{3: 2, 10: 1}, CountByCourse(qs))
	assert.Empty(t, CountByCourse(nil))
}
