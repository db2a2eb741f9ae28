package service

import (
	"context"
	"fmt"
	"time"

	"quiz-loader/internal/domain"

	"go.uber.org/zap"
)

type quizLoaderService struct {
	quizRepo  domain.QuizQuestionRepository
	txManager domain.TransactionManager
	validator domain.QuestionValidator
	logger    *zap.Logger
}

// NewQuizLoaderService creates the validate-then-commit loader.
func NewQuizLoaderService(
	quizRepo domain.QuizQuestionRepository,
	txManager domain.TransactionManager,
	validator domain.QuestionValidator,
	logger *zap.Logger,
) domain.QuizLoaderService {
	return &quizLoaderService{
		quizRepo:  quizRepo,
		txManager: txManager,
		validator: validator,
		logger:    logger,
	}
}

// ValidateOnly checks the whole batch and returns a VALIDATION_ERROR listing every violation.
func (s *quizLoaderService) ValidateOnly(questions []domain.QuizQuestion) error {
	violations := s.validator.ValidateQuestions(questions)
	if len(violations) == 0 {
		return nil
	}
	for _, v := range violations {
		s.logger.Error("Invalid quiz question",
			zap.Int("index", v.Index),
			zap.Int64("course_id", v.CourseID),
			zap.String("field", v.Field),
			zap.String("invariant", string(v.Invariant)),
			zap.String("value", firstN(v.Value, 40)),
			zap.String("reason", v.Message),
		)
	}
	return domain.NewBatchValidationError(violations)
}

// LoadQuestions validates the entire batch, then writes every record in one transaction.
// Nothing is written when validation fails, and any storage error rolls back the whole
// batch. Records are always inserted as new rows: loading the same batch twice stores it twice.
func (s *quizLoaderService) LoadQuestions(ctx context.Context, questions []domain.QuizQuestion) (*domain.LoadResult, error) {
	s.logger.Info("Validating quiz batch", zap.Int("questions", len(questions)))
	if err := s.ValidateOnly(questions); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		s.logger.Warn("Quiz batch is empty, nothing to insert")
		return &domain.LoadResult{PerCourse: map[int64]int{}}, nil
	}

	// Work on a copy so a rolled back run leaves no storage ids on the caller's records.
	batch := make([]domain.QuizQuestion, len(questions))
	copy(batch, questions)

	start := time.Now()
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range batch {
			if err := s.quizRepo.SaveQuestion(txCtx, &batch[i]); err != nil {
				return fmt.Errorf("record #%d (%q): %w", i, firstN(batch[i].Question, 50), err)
			}
			s.logger.Debug("Inserted quiz question",
				zap.Int("index", i),
				zap.Int64("course_id", batch[i].CourseID),
				zap.Int64("id", batch[i].ID),
			)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Quiz batch rolled back", zap.Int("questions", len(batch)), zap.Error(err))
		return nil, domain.NewPersistenceError("failed to persist quiz batch", err)
	}

	result := &domain.LoadResult{
		Inserted:  len(batch),
		PerCourse: domain.CountByCourse(batch),
		Questions: batch,
	}
	s.logger.Info("Quiz batch committed",
		zap.Int("inserted", result.Inserted),
		zap.Int("courses", len(result.PerCourse)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func firstN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
