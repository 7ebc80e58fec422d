package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 10 * time.Second

// LessonsTableDDL creates the table PostgresSource reads from.
const LessonsTableDDL = `CREATE TABLE IF NOT EXISTS lessons (
	id         TEXT PRIMARY KEY,
	language   TEXT NOT NULL,
	position   INTEGER NOT NULL,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (language, position)
)`

// PostgresSource reads lesson documents from the lessons table, one JSON
// document per language ordered by position.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a source backed by pool.
func NewPostgresSource(pool *pgxpool.Pool) (*PostgresSource, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresSource{pool: pool}, nil
}

// Documents implements Source.
func (s *PostgresSource) Documents(ctx context.Context) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT language, jsonb_agg(document ORDER BY position)::text
		 FROM lessons
		 GROUP BY language
		 ORDER BY language`,
	)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var lang, lessons string
		if err := rows.Scan(&lang, &lessons); err != nil {
			return nil, fmt.Errorf("scan lessons: %w", err)
		}

		data, err := json.Marshal(struct {
			Language string          `json:"language"`
			Lessons  json.RawMessage `json:"lessons"`
		}{lang, json.RawMessage(lessons)})
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", lang, err)
		}
		docs = append(docs, Document{Name: "postgres:lessons/" + lang, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return docs, nil
}

// Publish replaces the contents of the lessons table with the lessons of c.
// It runs in a single transaction.
func Publish(ctx context.Context, pool *pgxpool.Pool, c *Catalog) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, LessonsTableDDL); err != nil {
			return fmt.Errorf("create lessons table: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lessons`); err != nil {
			return fmt.Errorf("clear lessons: %w", err)
		}

		positions := make(map[Language]int)
		batch := &pgx.Batch{}
		for _, l := range c.lessons {
			doc, err := json.Marshal(fileFromLesson(l))
			if err != nil {
				return fmt.Errorf("encode lesson %s: %w", l.ID, err)
			}
			batch.Queue(
				`INSERT INTO lessons (id, language, position, document) VALUES ($1, $2, $3, $4::jsonb)`,
				l.ID, string(l.Language), positions[l.Language], string(doc),
			)
			positions[l.Language]++
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert lessons: %w", err)
		}
		return nil
	})
}

func fileFromLesson(l Lesson) lessonFile {
	lf := lessonFile{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Difficulty:   l.Difficulty,
		BaseXP:       l.BaseXP,
		BaselineTime: l.BaselineTime,
		Category:     l.Category,
		IsLocked:     l.IsLocked,
		Content:      make([]stepFile, 0, len(l.Content)),
	}
	if l.HasPrerequisite() {
		p := l.Prerequisite
		lf.Prerequisite = &p
	}

	for _, s := range l.Content {
		switch st := s.(type) {
		case TheoryStep:
			lf.Content = append(lf.Content, stepFile{
				Type:        StepTheory,
				Title:       st.Title,
				Content:     st.Content,
				Code:        st.Code,
				Explanation: st.Explanation,
			})
		case QuestionStep:
			correct := st.CorrectAnswer
			lf.Content = append(lf.Content, stepFile{
				Type:          StepQuestion,
				Question:      st.Question,
				Options:       st.Options,
				CorrectAnswer: &correct,
				Explanation:   st.Explanation,
			})
		}
	}
	return lf
}
