package repository

import (
	"context"
	"fmt"

	"quiz-loader/internal/domain"
	"quiz-loader/internal/repository/models"
)

const (
	insertQuizQuestionQuery = `INSERT INTO quizzes (
		courseId, question, optionA, optionB, optionC, optionD, correctAnswer, explanation
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Aliases are quoted so Oracle and Postgres keep the camelCase names.
	countQuizQuestionsQuery = `SELECT courseId AS "courseId", COUNT(*) AS "total"
	FROM quizzes
	GROUP BY courseId`
)

// QuizQuestionDatabaseAdapter implements domain.QuizQuestionRepository using sqlx.
type QuizQuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuizQuestionDatabaseAdapter creates a new instance of QuizQuestionDatabaseAdapter
func NewQuizQuestionDatabaseAdapter(db DBTX) domain.QuizQuestionRepository {
	return &QuizQuestionDatabaseAdapter{db: db}
}

// SaveQuestion implements domain.QuizQuestionRepository. Field values are written verbatim.
func (a *QuizQuestionDatabaseAdapter) SaveQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	if q == nil {
		return fmt.Errorf("cannot save nil quiz question")
	}
	m := toModelQuizQuestion(q)
	exec := GetExecutor(ctx, a.db)

	result, err := exec.ExecContext(ctx, exec.Rebind(insertQuizQuestionQuery),
		m.CourseID,
		m.Question,
		m.OptionA,
		m.OptionB,
		m.OptionC,
		m.OptionD,
		m.CorrectAnswer,
		m.Explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz question for course %d: %w", q.CourseID, err)
	}

	// pgx and go-ora do not report generated keys; the row is stored either way.
	if id, idErr := result.LastInsertId(); idErr == nil {
		q.ID = id
	}
	return nil
}

// CountQuestions implements domain.QuizQuestionRepository
func (a *QuizQuestionDatabaseAdapter) CountQuestions(ctx context.Context) (map[int64]int, error) {
	var rows []models.CourseCount
	exec := GetExecutor(ctx, a.db)
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(countQuizQuestionsQuery)); err != nil {
		return nil, fmt.Errorf("failed to count quiz questions: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.CourseID] = r.Total
	}
	return counts, nil
}

func toModelQuizQuestion(q *domain.QuizQuestion) *models.QuizQuestion {
	return &models.QuizQuestion{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Question:      q.Question,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: string(q.CorrectAnswer),
		Explanation:   q.Explanation,
	}
}
