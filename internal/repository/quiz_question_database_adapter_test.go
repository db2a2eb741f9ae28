package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"quiz-loader/internal/domain"
	"quiz-loader/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func sampleQuestion() *domain.QuizQuestion {
	return domain.NewQuizQuestion(3,
		"Quel réseau social est le plus utilisé en Côte d'Ivoire pour le commerce ?",
		[4]string{"LinkedIn", "WhatsApp et Facebook", "Twitter", "TikTok uniquement"},
		domain.OptionB,
		"WhatsApp et Facebook sont les plus populaires et accessibles pour les commerçants.",
	)
}

func TestSaveQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)
	q := sampleQuestion()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).
		WithArgs(q.CourseID, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, "B", q.Explanation).
		WillReturnResult(sqlmock.NewResult(42, 1))

	err := repo.SaveQuestion(context.Background(), q)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuestion_NoLastInsertID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)
	q := sampleQuestion()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("LastInsertId is not supported by this driver")))

	err := repo.SaveQuestion(context.Background(), q)

	assert.NoError(t, err)
	assert.Zero(t, q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuestion_ExecError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)
	dbErr := errors.New("Cannot add or update a child row: a foreign key constraint fails")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).WillReturnError(dbErr)

	err := repo.SaveQuestion(context.Background(), sampleQuestion())

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "course 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuestion_Nil(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)

	assert.Error(t, repo.SaveQuestion(context.Background(), nil))
}

func TestSaveQuestion_UsesTransactionFromContext(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), TransactionContextKey, tx)

	require.NoError(t, repo.SaveQuestion(ctx, sampleQuestion()))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"courseId", "total"}).
		AddRow(3, 7).
		AddRow(10, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT courseId AS "courseId", COUNT(*) AS "total"`)).WillReturnRows(rows)

	counts, err := repo.CountQuestions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{3: 7, 10: 7}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountQuestions_Error(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizQuestionDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT courseId")).WillReturnError(errors.New("connection reset"))

	_, err := repo.CountQuestions(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuestion_SQLiteRoundTrip(t *testing.T) {
	db := testutil.NewSQLiteStore(t, 10)
	repo := NewQuizQuestionDatabaseAdapter(db)
	q := sampleQuestion()

	require.NoError(t, repo.SaveQuestion(context.Background(), q))
	assert.Positive(t, q.ID)

	var stored struct {
		CourseID      int64  `db:"courseId"`
		Question      string `db:"question"`
		OptionB       string `db:"optionB"`
		CorrectAnswer string `db:"correctAnswer"`
	}
	require.NoError(t, db.Get(&stored, `SELECT courseId, question, optionB, correctAnswer FROM quizzes WHERE id = ?`, q.ID))
	assert.Equal(t, q.CourseID, stored.CourseID)
	assert.Equal(t, q.Question, stored.Question)
	assert.Equal(t, q.OptionB, stored.OptionB)
	assert.Equal(t, "B", stored.CorrectAnswer)

	counts, err := repo.CountQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{3: 1}, counts)
}

func TestSaveQuestion_SQLiteUnknownCourse(t *testing.T) {
	db := testutil.NewSQLiteStore(t, 10)
	repo := NewQuizQuestionDatabaseAdapter(db)
	q := sampleQuestion()
	q.CourseID = 99

	err := repo.SaveQuestion(context.Background(), q)

	assert.Error(t, err)
	assert.Equal(t, 0, testutil.CountRows(t, db))
}
