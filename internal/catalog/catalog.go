// Package catalog holds the static lesson catalog: the lesson data model,
// loading and validation of lesson documents, and read-only accessors.
package catalog

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrLessonNotFound is returned when a lesson ID is not in the catalog.
var ErrLessonNotFound = errors.New("lesson not found")

// Catalog is the immutable collection of all lessons across languages.
// It is safe for concurrent use.
type Catalog struct {
	lessons []Lesson
	digest  string
}

func newCatalog(lessons []Lesson, docs [][]byte) *Catalog {
	h, _ := blake2b.New256(nil)
	for _, d := range docs {
		h.Write(d)
		h.Write([]byte{0})
	}
	return &Catalog{
		lessons: lessons,
		digest:  hex.EncodeToString(h.Sum(nil)),
	}
}

// New builds a catalog from lesson records, kept in the given order, after
// validating them. The digest covers the JSON encoding of every lesson.
func New(lessons []Lesson) (*Catalog, error) {
	ls := make([]Lesson, len(lessons))
	for i, l := range lessons {
		ls[i] = cloneLesson(l)
	}
	if err := Validate(ls); err != nil {
		return nil, err
	}

	docs := make([][]byte, 0, len(ls))
	for _, l := range ls {
		data, err := json.Marshal(struct {
			Language Language   `json:"language"`
			Lesson   lessonFile `json:"lesson"`
		}{l.Language, fileFromLesson(l)})
		if err != nil {
			return nil, fmt.Errorf("encode lesson %s: %w", l.ID, err)
		}
		docs = append(docs, data)
	}
	return newCatalog(ls, docs), nil
}

// Digest returns the BLAKE2b-256 hex digest of the source documents, or of
// the lesson records for a catalog built with New.
func (c *Catalog) Digest() string {
	return c.digest
}

// All returns every lesson in catalog order.
func (c *Catalog) All() []Lesson {
	out := make([]Lesson, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = cloneLesson(l)
	}
	return out
}

// Languages returns the languages that have at least one lesson, in
// canonical order.
func (c *Catalog) Languages() []Language {
	langs := []Language{}
	for _, lang := range languageOrder {
		if c.TotalLessonsByLanguage(lang) > 0 {
			langs = append(langs, lang)
		}
	}
	return langs
}

// LessonsByLanguage returns the lessons for lang in catalog order. The result
// is never nil.
func (c *Catalog) LessonsByLanguage(lang Language) []Lesson {
	out := []Lesson{}
	for _, l := range c.lessons {
		if l.Language == lang {
			out = append(out, cloneLesson(l))
		}
	}
	return out
}

// LessonByID returns the lesson with the given ID.
func (c *Catalog) LessonByID(id string) (Lesson, bool) {
	for _, l := range c.lessons {
		if l.ID == id {
			return cloneLesson(l), true
		}
	}
	return Lesson{}, false
}

// TotalLessonsByLanguage counts the lessons for lang.
func (c *Catalog) TotalLessonsByLanguage(lang Language) int {
	n := 0
	for _, l := range c.lessons {
		if l.Language == lang {
			n++
		}
	}
	return n
}

// CompletedLessonsByLanguage counts the distinct IDs in completed that name a
// catalog lesson in lang. Unknown IDs are ignored.
func (c *Catalog) CompletedLessonsByLanguage(lang Language, completed []string) int {
	done := toSet(completed)
	n := 0
	for _, l := range c.lessons {
		if l.Language != lang {
			continue
		}
		if _, ok := done[l.ID]; ok {
			n++
		}
	}
	return n
}

// IndexOf returns the 0-based position of the lesson within its language and
// the number of lessons in that language.
func (c *Catalog) IndexOf(id string) (index, total int, ok bool) {
	lesson, found := c.LessonByID(id)
	if !found {
		return 0, 0, false
	}

	index = -1
	for _, l := range c.lessons {
		if l.Language != lesson.Language {
			continue
		}
		if l.ID == id && index < 0 {
			index = total
		}
		total++
	}
	return index, total, true
}

// Next returns the lesson that follows id in the same language.
func (c *Catalog) Next(id string) (Lesson, bool) {
	lesson, ok := c.LessonByID(id)
	if !ok {
		return Lesson{}, false
	}

	found := false
	for _, l := range c.lessons {
		if l.Language != lesson.Language {
			continue
		}
		if found {
			return cloneLesson(l), true
		}
		found = l.ID == id
	}
	return Lesson{}, false
}

// PrerequisiteMet reports whether the lesson has no prerequisite or its
// prerequisite appears in completed. Unknown lessons report false.
func (c *Catalog) PrerequisiteMet(id string, completed []string) bool {
	lesson, ok := c.LessonByID(id)
	if !ok {
		return false
	}
	if !lesson.HasPrerequisite() {
		return true
	}
	_, done := toSet(completed)[lesson.Prerequisite]
	return done
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func cloneLesson(l Lesson) Lesson {
	steps := make([]Step, len(l.Content))
	for i, s := range l.Content {
		if q, ok := s.(QuestionStep); ok {
			q.Options = append([]string(nil), q.Options...)
			s = q
		}
		steps[i] = s
	}
	l.Content = steps
	return l
}
