package models

// QuizQuestion mirrors a row of the quizzes table.
type QuizQuestion struct {
	ID            int64  `db:"id"`
	CourseID      int64  `db:"courseId"`
	Question      string `db:"question"`
	OptionA       string `db:"optionA"`
	OptionB       string `db:"optionB"`
	OptionC       string `db:"optionC"`
	OptionD       string `db:"optionD"`
	CorrectAnswer string `db:"correctAnswer"`
	Explanation   string `db:"explanation"`
}

// CourseCount is one row of a per-course count query.
type CourseCount struct {
	CourseID int64 `db:"courseId"`
	Total    int   `db:"total"`
}
