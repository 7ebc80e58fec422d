package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ValidationError lists every invariant violation found in a set of lessons.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("invalid catalog (%d problems): %s", len(e.Problems), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

var (
	// ErrDuplicateID is reported when two lessons share an ID.
	ErrDuplicateID = errors.New("duplicate lesson id")
	// ErrMissingPrerequisite is reported when a prerequisite names no lesson.
	ErrMissingPrerequisite = errors.New("prerequisite not found")
	// ErrInvalidLesson is reported for a malformed lesson or step.
	ErrInvalidLesson = errors.New("invalid lesson")
	// ErrInvalidQuestion is reported for a question with bad options or answer.
	ErrInvalidQuestion = errors.New("invalid question")
)

// Validate checks the catalog invariants across all lessons and returns a
// *ValidationError naming every problem, or nil.
func Validate(lessons []Lesson) error {
	var problems []error
	add := func(err error, format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]struct{}, len(lessons))
	for _, l := range lessons {
		if l.ID == "" {
			add(ErrInvalidLesson, "lesson %q has an empty id", l.Title)
			continue
		}
		if _, dup := seen[l.ID]; dup {
			add(ErrDuplicateID, "%s", l.ID)
		}
		seen[l.ID] = struct{}{}
	}

	for _, l := range lessons {
		if !l.Language.Valid() {
			add(ErrInvalidLesson, "%s: unknown language %q", l.ID, l.Language)
		}
		if !l.Difficulty.Valid() {
			add(ErrInvalidLesson, "%s: unknown difficulty %q", l.ID, l.Difficulty)
		}
		if l.BaseXP <= 0 {
			add(ErrInvalidLesson, "%s: base_xp must be positive, got %d", l.ID, l.BaseXP)
		}
		if !(l.BaselineTime > 0) || math.IsInf(l.BaselineTime, 0) {
			add(ErrInvalidLesson, "%s: baseline_time must be positive, got %v", l.ID, l.BaselineTime)
		}
		if l.Prerequisite != "" {
			if l.Prerequisite == l.ID {
				add(ErrMissingPrerequisite, "%s: lesson lists itself as prerequisite", l.ID)
			} else if _, ok := seen[l.Prerequisite]; !ok {
				add(ErrMissingPrerequisite, "%s requires %q", l.ID, l.Prerequisite)
			}
		}

		for i, s := range l.Content {
			var q QuestionStep
			switch st := s.(type) {
			case TheoryStep:
				continue
			case QuestionStep:
				q = st
			default:
				add(ErrInvalidLesson, "%s step %d: unsupported step %T", l.ID, i, s)
				continue
			}
			if len(q.Options) < 2 {
				add(ErrInvalidQuestion, "%s step %d: need at least 2 options, got %d", l.ID, i, len(q.Options))
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				add(ErrInvalidQuestion, "%s step %d: correct_answer %d out of range [0,%d)", l.ID, i, q.CorrectAnswer, len(q.Options))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
