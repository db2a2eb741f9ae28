package domain

// AnswerOption is the label of one of the four answer choices.
type AnswerOption string

const (
	OptionA AnswerOption = "A"
	OptionB AnswerOption = "B"
	OptionC AnswerOption = "C"
	OptionD AnswerOption = "D"
)

// AnswerOptions lists the labels in display order.
var AnswerOptions = []AnswerOption{OptionA, OptionB, OptionC, OptionD}

// QuizQuestion is one multiple-choice question attached to a course.
// The json names match the storage columns and are used in violation reports.
type QuizQuestion struct {
	ID            int64        `json:"id"`
	CourseID      int64        `json:"courseId" validate:"gt=0"`
	Question      string       `json:"question" validate:"notblank"`
	OptionA       string       `json:"optionA" validate:"notblank"`
	OptionB       string       `json:"optionB" validate:"notblank"`
	OptionC       string       `json:"optionC" validate:"notblank"`
	OptionD       string       `json:"optionD" validate:"notblank"`
	CorrectAnswer AnswerOption `json:"correctAnswer" validate:"oneof=A B C D"`
	Explanation   string       `json:"explanation" validate:"notblank"`
}

// NewQuizQuestion creates a new QuizQuestion instance. The options are given in A..D order.
func NewQuizQuestion(courseID int64, question string, options [4]string, correct AnswerOption, explanation string) *QuizQuestion {
	return &QuizQuestion{
		CourseID:      courseID,
		Question:      question,
		OptionA:       options[0],
		OptionB:       options[1],
		OptionC:       options[2],
		OptionD:       options[3],
		CorrectAnswer: correct,
		Explanation:   explanation,
	}
}

// LoadResult summarises one committed batch.
type LoadResult struct {
	Inserted  int
	PerCourse map[int64]int
	// Questions holds the persisted records in input order, with ID set when the driver reports it.
	Questions []QuizQuestion
}

// CountByCourse tallies questions per course id.
func CountByCourse(questions []QuizQuestion) map[int64]int {
	counts := make(map[int64]int)
	for _, q := range questions {
		counts[q.CourseID]++
	}
	return counts
}
