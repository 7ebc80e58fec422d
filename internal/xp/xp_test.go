package xp_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/p-n-ai/duocode/internal/catalog"
	"github.com/p-n-ai/duocode/internal/xp"
)

func TestClassifyByIndex(t *testing.T) {
	tests := []struct {
		index int
		want  catalog.Difficulty
	}{
		{-1, catalog.DifficultyBeginner},
		{0, catalog.DifficultyBeginner},
		{16, catalog.DifficultyBeginner},
		{17, catalog.DifficultyIntermediate},
		{33, catalog.DifficultyIntermediate},
		{34, catalog.DifficultyAdvanced},
		{500, catalog.DifficultyAdvanced},
	}

	for _, tt := range tests {
		if got := xp.ClassifyByIndex(tt.index); got != tt.want {
			t.Errorf("ClassifyByIndex(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestCompute_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		in   xp.Input
		want int
	}{
		{
			name: "beginner first lesson at baseline",
			in: xp.Input{
				BaseXP: 50, Difficulty: catalog.DifficultyBeginner,
				LessonIndex: 0, TotalLessons: 17, ActualTime: 1, BaselineTime: 1,
			},
			want: 50,
		},
		{
			name: "intermediate halfway with speed bonus",
			in: xp.Input{
				BaseXP: 100, Difficulty: catalog.DifficultyIntermediate,
				LessonIndex: 10, TotalLessons: 20, ActualTime: 0.5, BaselineTime: 1,
			},
			want: 206, // 100 * 1.5 * 1.25 * 1.1 = 206.25
		},
		{
			name: "advanced last position instant finish",
			in: xp.Input{
				BaseXP: 100, Difficulty: catalog.DifficultyAdvanced,
				LessonIndex: 10, TotalLessons: 10, ActualTime: 0, BaselineTime: 5,
			},
			want: 360, // 100 * 2 * 1.5 * 1.2
		},
		{
			name: "rounds half away from zero",
			in: xp.Input{
				BaseXP: 5, Difficulty: catalog.DifficultyIntermediate,
				LessonIndex: 0, TotalLessons: 1, ActualTime: 3, BaselineTime: 3,
			},
			want: 8, // 7.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xp.Compute(tt.in)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Compute() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute_MonotonicInDifficulty(t *testing.T) {
	tiers := []catalog.Difficulty{
		catalog.DifficultyBeginner,
		catalog.DifficultyIntermediate,
		catalog.DifficultyAdvanced,
	}

	for _, actual := range []float64{0, 2.5, 5, 9} {
		prev := -1
		for _, d := range tiers {
			got, err := xp.Compute(xp.Input{
				BaseXP: 70, Difficulty: d, LessonIndex: 3, TotalLessons: 12,
				ActualTime: actual, BaselineTime: 5,
			})
			if err != nil {
				t.Fatalf("Compute(%s) error = %v", d, err)
			}
			if got < prev {
				t.Errorf("actual=%v: Compute(%s) = %d, less than previous tier %d", actual, d, got, prev)
			}
			prev = got
		}
	}
}

func TestCompute_TimeBonusClamp(t *testing.T) {
	base := xp.Input{
		BaseXP: 80, Difficulty: catalog.DifficultyIntermediate,
		LessonIndex: 4, TotalLessons: 9, BaselineTime: 6,
	}

	atBaseline := base
	atBaseline.ActualTime = base.BaselineTime
	slow := base
	slow.ActualTime = base.BaselineTime * 2
	verySlow := base
	verySlow.ActualTime = base.BaselineTime * 100

	want, err := xp.Compute(atBaseline)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, in := range []xp.Input{slow, verySlow} {
		got, err := xp.Compute(in)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if got != want {
			t.Errorf("Compute(actual=%v) = %d, want %d (slow finishes earn no less than baseline)", in.ActualTime, got, want)
		}
	}
}

func TestCompute_ProgressScaling(t *testing.T) {
	const total = 20
	in := xp.Input{
		BaseXP: 100, Difficulty: catalog.DifficultyBeginner,
		TotalLessons: total, ActualTime: 4, BaselineTime: 4,
	}

	in.LessonIndex = 0
	first, err := xp.Compute(in)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	in.LessonIndex = total
	last, err := xp.Compute(in)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if first != 100 {
		t.Errorf("Compute(index=0) = %d, want 100 (multiplier 1.0)", first)
	}
	if last != 150 {
		t.Errorf("Compute(index=total) = %d, want 150 (multiplier 1.5)", last)
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	valid := xp.Input{
		BaseXP: 50, Difficulty: catalog.DifficultyBeginner,
		LessonIndex: 0, TotalLessons: 10, ActualTime: 1, BaselineTime: 1,
	}

	tests := []struct {
		name   string
		mutate func(*xp.Input)
		target error
	}{
		{"zero total", func(in *xp.Input) { in.TotalLessons = 0 }, xp.ErrInvalidInput},
		{"zero baseline", func(in *xp.Input) { in.BaselineTime = 0 }, xp.ErrInvalidInput},
		{"NaN baseline", func(in *xp.Input) { in.BaselineTime = math.NaN() }, xp.ErrInvalidInput},
		{"negative actual", func(in *xp.Input) { in.ActualTime = -1 }, xp.ErrInvalidInput},
		{"infinite actual", func(in *xp.Input) { in.ActualTime = math.Inf(1) }, xp.ErrInvalidInput},
		{"negative index", func(in *xp.Input) { in.LessonIndex = -2 }, xp.ErrInvalidInput},
		{"zero base xp", func(in *xp.Input) { in.BaseXP = 0 }, xp.ErrInvalidInput},
		{"unknown difficulty", func(in *xp.Input) { in.Difficulty = "Expert" }, xp.ErrUnknownDifficulty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := xp.Compute(in)
			if !errors.Is(err, tt.target) {
				t.Errorf("Compute() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		d    catalog.Difficulty
		want float64
	}{
		{catalog.DifficultyBeginner, 1.0},
		{catalog.DifficultyIntermediate, 1.5},
		{catalog.DifficultyAdvanced, 2.0},
	}
	for _, tt := range tests {
		got, err := xp.Multiplier(tt.d)
		if err != nil {
			t.Fatalf("Multiplier(%s) error = %v", tt.d, err)
		}
		if got != tt.want {
			t.Errorf("Multiplier(%s) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestMinutes(t *testing.T) {
	if got := xp.Minutes(90 * time.Second); got != 1.5 {
		t.Errorf("Minutes(90s) = %v, want 1.5", got)
	}
}

func TestAward(t *testing.T) {
	c, err := catalog.New([]catalog.Lesson{
		{ID: "py-1", Title: "One", Difficulty: catalog.DifficultyBeginner, BaseXP: 50, BaselineTime: 4, Language: catalog.LanguagePython},
		{ID: "js-1", Title: "JS", Difficulty: catalog.DifficultyBeginner, BaseXP: 50, BaselineTime: 4, Language: catalog.LanguageJavaScript},
		{ID: "py-2", Title: "Two", Difficulty: catalog.DifficultyAdvanced, BaseXP: 100, BaselineTime: 10, Language: catalog.LanguagePython},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	// py-2 is index 1 of 2 python lessons: 100 * 2.0 * 1.25 * 1.1 = 275.
	got, err := xp.Award(c, "py-2", 5*time.Minute)
	if err != nil {
		t.Fatalf("Award() error = %v", err)
	}
	if got != 275 {
		t.Errorf("Award(py-2) = %d, want 275", got)
	}

	got, err = xp.Award(c, "py-1", 4*time.Minute)
	if err != nil {
		t.Fatalf("Award() error = %v", err)
	}
	if got != 50 {
		t.Errorf("Award(py-1) = %d, want 50", got)
	}

	if _, err := xp.Award(c, "missing", time.Minute); !errors.Is(err, catalog.ErrLessonNotFound) {
		t.Errorf("Award(missing) error = %v, want ErrLessonNotFound", err)
	}
}
