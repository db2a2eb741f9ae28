package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quiz-loader/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator checks quiz question batches against the data model rules.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Violations are reported with the storage column names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	return &Validator{validate: v}
}

// ValidateQuestions checks every record and returns all violations in input order.
// An empty result means the batch can be written as is. The input is never modified.
func (v *Validator) ValidateQuestions(questions []domain.QuizQuestion) domain.ValidationErrors {
	var violations domain.ValidationErrors
	for i := range questions {
		violations = append(violations, v.validateQuestion(i, &questions[i])...)
	}
	return violations
}

func (v *Validator) validateQuestion(index int, q *domain.QuizQuestion) domain.ValidationErrors {
	err := v.validate.Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only an invalid argument (nil pointer) gets here.
		return domain.ValidationErrors{{
			Index:    index,
			CourseID: q.CourseID,
			Field:    "record",
			Message:  err.Error(),
		}}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toViolation(index, q.CourseID, fe))
	}
	return out
}

func toViolation(index int, courseID int64, fe validator.FieldError) domain.Violation {
	v := domain.Violation{
		Index:    index,
		CourseID: courseID,
		Field:    fe.Field(),
		Value:    fmt.Sprintf("%v", fe.Value()),
	}
	switch fe.Tag() {
	case "gt":
		v.Invariant = domain.InvariantPositiveCourse
		v.Message = "must be a positive integer"
	case "notblank":
		v.Invariant = domain.InvariantNonBlankText
		v.Message = "must not be empty"
	case "oneof":
		v.Invariant = domain.InvariantAnswerOption
		v.Message = "must be one of " + joinOptions(domain.AnswerOptions)
	default:
		v.Message = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func joinOptions(opts []domain.AnswerOption) string {
	s := make([]string, len(opts))
	for i, o := range opts {
		s[i] = string(o)
	}
	return strings.Join(s, ", ")
}
