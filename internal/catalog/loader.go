package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Document is one raw lesson document (YAML or JSON) covering a language.
type Document struct {
	Name string
	Data []byte
}

// Source yields the raw documents a catalog is built from.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// FSSource reads every *.yaml, *.yml and *.json file under FS.
type FSSource struct {
	FS fs.FS
}

// Documents walks the file system in lexical order.
func (s FSSource) Documents(ctx context.Context) ([]Document, error) {
	if s.FS == nil {
		return nil, fmt.Errorf("fs source: nil file system")
	}

	var docs []Document
	err := fs.WalkDir(s.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml", ".json":
		default:
			slog.Debug("skipping non-document file", "path", p)
			return nil
		}

		data, err := fs.ReadFile(s.FS, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, Document{Name: p, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk lesson documents: %w", err)
	}
	return docs, nil
}

// documentFile is the on-disk shape of a lesson document.
type documentFile struct {
	Language Language     `yaml:"language" json:"language"`
	Lessons  []lessonFile `yaml:"lessons" json:"lessons"`
}

type lessonFile struct {
	ID           string     `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description,omitempty"`
	Difficulty   Difficulty `yaml:"difficulty" json:"difficulty"`
	BaseXP       int        `yaml:"base_xp" json:"base_xp"`
	BaselineTime float64    `yaml:"baseline_time" json:"baseline_time"`
	Category     string     `yaml:"category" json:"category,omitempty"`
	IsLocked     bool       `yaml:"is_locked" json:"is_locked"`
	Prerequisite *string    `yaml:"prerequisite" json:"prerequisite,omitempty"`
	Content      []stepFile `yaml:"content" json:"content"`
}

// stepFile carries the fields of both step variants; Type picks one.
type stepFile struct {
	Type          StepKind `yaml:"type" json:"type"`
	Title         string   `yaml:"title" json:"title,omitempty"`
	Content       string   `yaml:"content" json:"content,omitempty"`
	Code          string   `yaml:"code" json:"code,omitempty"`
	Question      string   `yaml:"question" json:"question,omitempty"`
	Options       []string `yaml:"options" json:"options,omitempty"`
	CorrectAnswer *int     `yaml:"correct_answer" json:"correct_answer,omitempty"`
	Explanation   string   `yaml:"explanation" json:"explanation,omitempty"`
}

// Load reads every document from src, checks it against the lesson schema,
// and builds an immutable Catalog. Any invariant violation fails the load.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var (
		lessons []Lesson
		data    [][]byte
	)
	for _, doc := range docs {
		ls, err := decodeDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		lessons = append(lessons, ls...)
		data = append(data, doc.Data)
	}

	// Stable keeps document order within a language.
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Language.rank() < lessons[j].Language.rank()
	})

	if err := Validate(lessons); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	c := newCatalog(lessons, data)
	slog.Info("catalog loaded",
		"lessons", len(c.lessons),
		"languages", len(c.Languages()),
		"documents", len(docs),
		"digest", c.Digest(),
	)
	return c, nil
}

func decodeDocument(doc Document) ([]Lesson, error) {
	var raw any
	if err := yaml.Unmarshal(doc.Data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse: %w", doc.Name, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: empty document", doc.Name)
	}
	if err := checkSchema(doc.Name, raw); err != nil {
		return nil, err
	}

	var file documentFile
	if err := yaml.Unmarshal(doc.Data, &file); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", doc.Name, err)
	}

	lessons := make([]Lesson, 0, len(file.Lessons))
	for _, lf := range file.Lessons {
		lessons = append(lessons, lf.toLesson(file.Language))
	}
	return lessons, nil
}

func (lf lessonFile) toLesson(lang Language) Lesson {
	l := Lesson{
		ID:           strings.TrimSpace(lf.ID),
		Title:        nfc(lf.Title),
		Description:  nfc(lf.Description),
		Difficulty:   lf.Difficulty,
		BaseXP:       lf.BaseXP,
		BaselineTime: lf.BaselineTime,
		Language:     lang,
		Category:     nfc(lf.Category),
		IsLocked:     lf.IsLocked,
		Content:      make([]Step, 0, len(lf.Content)),
	}
	if lf.Prerequisite != nil {
		l.Prerequisite = strings.TrimSpace(*lf.Prerequisite)
	}

	for _, sf := range lf.Content {
		switch sf.Type {
		case StepQuestion:
			opts := make([]string, len(sf.Options))
			for i, o := range sf.Options {
				opts[i] = nfc(o)
			}
			correct := 0
			if sf.CorrectAnswer != nil {
				correct = *sf.CorrectAnswer
			}
			l.Content = append(l.Content, QuestionStep{
				Question:      nfc(sf.Question),
				Options:       opts,
				CorrectAnswer: correct,
				Explanation:   nfc(sf.Explanation),
			})
		default:
			// The schema only admits theory and question.
			l.Content = append(l.Content, TheoryStep{
				Title:       nfc(sf.Title),
				Content:     nfc(sf.Content),
				Code:        sf.Code,
				Explanation: nfc(sf.Explanation),
			})
		}
	}
	return l
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
