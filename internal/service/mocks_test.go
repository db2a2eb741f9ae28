package service

import (
	"context"

	"quiz-loader/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizQuestionRepository ---
type MockQuizQuestionRepository struct {
	mock.Mock
}

func (m *MockQuizQuestionRepository) SaveQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuizQuestionRepository) CountQuestions(ctx context.Context) (map[int64]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// --- MockTransactionManager ---
type MockTransactionManager struct {
	mock.Mock
}

// WithTransaction runs fn directly and returns its error unless the expectation overrides it.
func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := fn(ctx); err != nil {
		return err
	}
	return args.Error(0)
}
