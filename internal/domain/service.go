package domain

import "context"

// QuizQuestionRepository defines the interface for quiz question persistence
type QuizQuestionRepository interface {
	// SaveQuestion inserts q as a new row and sets q.ID when the store reports it.
	SaveQuestion(ctx context.Context, q *QuizQuestion) error
	// CountQuestions returns the number of stored questions per course.
	CountQuestions(ctx context.Context) (map[int64]int, error)
}

// TransactionManager runs fn inside a single transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// QuestionValidator checks a whole batch before anything is written.
type QuestionValidator interface {
	ValidateQuestions(questions []QuizQuestion) ValidationErrors
}

// QuizLoaderService validates and persists a batch of quiz questions as one unit.
type QuizLoaderService interface {
	LoadQuestions(ctx context.Context, questions []QuizQuestion) (*LoadResult, error)
	ValidateOnly(questions []QuizQuestion) error
}
