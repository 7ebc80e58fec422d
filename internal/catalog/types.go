package catalog

// Language identifies the programming language a lesson teaches.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageCPP        Language = "cpp"
	LanguageJava       Language = "java"
)

// languageOrder is the canonical order languages appear in the catalog.
var languageOrder = []Language{LanguagePython, LanguageJavaScript, LanguageCPP, LanguageJava}

// AllLanguages returns every supported language in canonical order.
func AllLanguages() []Language {
	return append([]Language(nil), languageOrder...)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l.rank() >= 0
}

// DisplayName returns the human-readable language name.
func (l Language) DisplayName() string {
	switch l {
	case LanguagePython:
		return "Python"
	case LanguageJavaScript:
		return "JavaScript"
	case LanguageCPP:
		return "C++"
	case LanguageJava:
		return "Java"
	default:
		return string(l)
	}
}

func (l Language) rank() int {
	for i, lang := range languageOrder {
		if lang == l {
			return i
		}
	}
	return -1
}

// Difficulty is the tier of a lesson and drives the XP multiplier.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Lesson is one unit of instructional content.
type Lesson struct {
	ID           string
	Title        string
	Description  string
	Difficulty   Difficulty
	BaseXP       int
	BaselineTime float64 // minutes
	Language     Language
	Category     string
	IsLocked     bool
	Prerequisite string // empty when the lesson has none
	Content      []Step
}

// HasPrerequisite reports whether another lesson must precede this one.
func (l Lesson) HasPrerequisite() bool {
	return l.Prerequisite != ""
}

// Questions returns the quiz steps of the lesson in order.
func (l Lesson) Questions() []QuestionStep {
	var qs []QuestionStep
	for _, s := range l.Content {
		if q, ok := s.(QuestionStep); ok {
			qs = append(qs, q)
		}
	}
	return qs
}

// StepKind discriminates the Step variants.
type StepKind string

const (
	StepTheory   StepKind = "theory"
	StepQuestion StepKind = "question"
)

// Step is either a TheoryStep or a QuestionStep.
type Step interface {
	Kind() StepKind
	step()
}

// TheoryStep presents instructional material.
type TheoryStep struct {
	Title       string
	Content     string
	Code        string
	Explanation string
}

func (TheoryStep) Kind() StepKind { return StepTheory }
func (TheoryStep) step()          {}

// QuestionStep is a single-select multiple-choice quiz item.
type QuestionStep struct {
	Question      string
	Options       []string
	CorrectAnswer int // index into Options
	Explanation   string
}

func (QuestionStep) Kind() StepKind { return StepQuestion }
func (QuestionStep) step()          {}

// IsCorrect reports whether choice is the index of the right option.
func (q QuestionStep) IsCorrect(choice int) bool {
	return choice == q.CorrectAnswer
}
