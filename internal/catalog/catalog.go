// Package catalog holds the hand-authored quiz content and decodes it into quiz questions.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"quiz-loader/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed quizzes.yaml
var defaultCatalog []byte

type catalogFile struct {
	Courses []courseEntry `yaml:"courses"`
}

type courseEntry struct {
	ID        int64           `yaml:"id"`
	Title     string          `yaml:"title"`
	Questions []questionEntry `yaml:"questions"`
}

type questionEntry struct {
	Question    string            `yaml:"question"`
	Options     map[string]string `yaml:"options"`
	Answer      string            `yaml:"answer"`
	Explanation string            `yaml:"explanation"`
}

// Course is the summary of one course block of a catalog.
type Course struct {
	ID        int64
	Title     string
	Questions int
}

// Catalog is a decoded batch of questions, in authored order.
type Catalog struct {
	Courses   []Course
	Questions []domain.QuizQuestion
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a YAML catalog. Unknown keys are rejected; field values are kept verbatim
// so that invalid content reaches the validator instead of being fixed up here.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{}
	for _, ce := range file.Courses {
		for _, qe := range ce.Questions {
			for label := range qe.Options {
				if !isOptionLabel(label) {
					return nil, fmt.Errorf("course %d, question %q: unknown option label %q", ce.ID, qe.Question, label)
				}
			}
			c.Questions = append(c.Questions, domain.QuizQuestion{
				CourseID:      ce.ID,
				Question:      qe.Question,
				OptionA:       qe.Options[string(domain.OptionA)],
				OptionB:       qe.Options[string(domain.OptionB)],
				OptionC:       qe.Options[string(domain.OptionC)],
				OptionD:       qe.Options[string(domain.OptionD)],
				CorrectAnswer: domain.AnswerOption(qe.Answer),
				Explanation:   qe.Explanation,
			})
		}
		c.Courses = append(c.Courses, Course{ID: ce.ID, Title: ce.Title, Questions: len(ce.Questions)})
	}
	return c, nil
}

// FilterCourses returns the questions of the given courses, keeping input order.
// An empty ids list returns questions unchanged.
func FilterCourses(questions []domain.QuizQuestion, ids []int64) []domain.QuizQuestion {
	if len(ids) == 0 {
		return questions
	}
	keep := make(map[int64]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	out := make([]domain.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if keep[q.CourseID] {
			out = append(out, q)
		}
	}
	return out
}

func isOptionLabel(label string) bool {
	for _, o := range domain.AnswerOptions {
		if string(o) == label {
			return true
		}
	}
	return false
}
