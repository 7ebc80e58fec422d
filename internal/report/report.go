// Package report exports the lesson catalog as an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/duocode/internal/catalog"
	"github.com/p-n-ai/duocode/internal/xp"
)

// Sheet names.
const (
	LessonsSheet = "Lessons"
	SummarySheet = "Summary"
)

var lessonsHeader = []any{
	"Language", "Index", "ID", "Title", "Difficulty", "Index Tier",
	"Base XP", "Baseline (min)", "Steps", "Questions", "XP @ Baseline", "XP @ Half Time",
}

var summaryHeader = []any{"Language", "Lessons", "Questions", "Total XP @ Baseline"}

// WriteWorkbook writes the Lessons and Summary sheets for c to w.
func WriteWorkbook(w io.Writer, c *catalog.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", LessonsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	if err := setRow(f, LessonsSheet, 1, lessonsHeader); err != nil {
		return err
	}
	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}

	row := 2
	for i, lang := range c.Languages() {
		lessons := c.LessonsByLanguage(lang)

		var questions, totalXP int
		for idx, l := range lessons {
			atBaseline, err := reward(l, idx, len(lessons), l.BaselineTime)
			if err != nil {
				return err
			}
			atHalf, err := reward(l, idx, len(lessons), l.BaselineTime/2)
			if err != nil {
				return err
			}

			qs := len(l.Questions())
			questions += qs
			totalXP += atBaseline

			if err := setRow(f, LessonsSheet, row, []any{
				lang.DisplayName(), idx, l.ID, l.Title, string(l.Difficulty), string(xp.ClassifyByIndex(idx)),
				l.BaseXP, l.BaselineTime, len(l.Content), qs, atBaseline, atHalf,
			}); err != nil {
				return err
			}
			row++
		}

		if err := setRow(f, SummarySheet, i+2, []any{
			lang.DisplayName(), len(lessons), questions, totalXP,
		}); err != nil {
			return err
		}
	}

	if err := f.SetPanes(LessonsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func reward(l catalog.Lesson, index, total int, minutes float64) (int, error) {
	v, err := xp.Compute(xp.Input{
		BaseXP:       l.BaseXP,
		Difficulty:   l.Difficulty,
		LessonIndex:  index,
		TotalLessons: total,
		ActualTime:   minutes,
		BaselineTime: l.BaselineTime,
	})
	if err != nil {
		return 0, fmt.Errorf("xp for %s: %w", l.ID, err)
	}
	return v, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
