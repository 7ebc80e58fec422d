// Package xp computes the experience-point reward for finishing a lesson.
package xp

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/p-n-ai/duocode/internal/catalog"
)

// Tier thresholds over a lesson's 0-based position within its language.
const (
	IntermediateFrom = 17
	AdvancedFrom     = 34
)

const (
	maxProgressBonus = 0.5
	maxTimeBonus     = 0.2
)

var (
	// ErrInvalidInput is returned for inputs outside the formula's domain.
	ErrInvalidInput = errors.New("invalid xp input")
	// ErrUnknownDifficulty is returned for a tier with no multiplier.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ClassifyByIndex maps a lesson position to a difficulty tier. index must be
// non-negative; negative values report Beginner.
func ClassifyByIndex(index int) catalog.Difficulty {
	switch {
	case index < IntermediateFrom:
		return catalog.DifficultyBeginner
	case index < AdvancedFrom:
		return catalog.DifficultyIntermediate
	default:
		return catalog.DifficultyAdvanced
	}
}

// Multiplier returns the reward multiplier for a difficulty tier.
func Multiplier(d catalog.Difficulty) (float64, error) {
	switch d {
	case catalog.DifficultyBeginner:
		return 1.0, nil
	case catalog.DifficultyIntermediate:
		return 1.5, nil
	case catalog.DifficultyAdvanced:
		return 2.0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
}

// Input holds the parameters of a reward computation. Times are in minutes.
type Input struct {
	BaseXP       int
	Difficulty   catalog.Difficulty
	LessonIndex  int
	TotalLessons int
	ActualTime   float64
	BaselineTime float64
}

// Compute returns the rounded XP reward:
//
//	BaseXP * difficulty * (1 + index/total*0.5) * (1 + max(0, (baseline-actual)/baseline*0.2))
//
// Finishing slower than baseline never reduces the reward.
func Compute(in Input) (int, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	difficulty, err := Multiplier(in.Difficulty)
	if err != nil {
		return 0, err
	}

	progress := 1 + (float64(in.LessonIndex)/float64(in.TotalLessons))*maxProgressBonus
	timeBonus := math.Max(0, ((in.BaselineTime-in.ActualTime)/in.BaselineTime)*maxTimeBonus)

	final := float64(in.BaseXP) * difficulty * progress * (1 + timeBonus)
	return int(math.Round(final)), nil
}

func (in Input) validate() error {
	switch {
	case in.BaseXP <= 0:
		return fmt.Errorf("%w: base xp must be positive, got %d", ErrInvalidInput, in.BaseXP)
	case in.TotalLessons <= 0:
		return fmt.Errorf("%w: total lessons must be positive, got %d", ErrInvalidInput, in.TotalLessons)
	case in.LessonIndex < 0:
		return fmt.Errorf("%w: lesson index must not be negative, got %d", ErrInvalidInput, in.LessonIndex)
	case !finite(in.BaselineTime) || in.BaselineTime <= 0:
		return fmt.Errorf("%w: baseline time must be positive, got %v", ErrInvalidInput, in.BaselineTime)
	case !finite(in.ActualTime) || in.ActualTime < 0:
		return fmt.Errorf("%w: actual time must not be negative, got %v", ErrInvalidInput, in.ActualTime)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Minutes converts a wall-clock duration to the minute unit used by Input.
func Minutes(d time.Duration) float64 {
	return d.Minutes()
}

// Award computes the reward for finishing the catalog lesson id in actual
// time. The lesson's stored difficulty is used, not ClassifyByIndex.
func Award(c *catalog.Catalog, id string, actual time.Duration) (int, error) {
	lesson, ok := c.LessonByID(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", catalog.ErrLessonNotFound, id)
	}
	index, total, _ := c.IndexOf(id)

	return Compute(Input{
		BaseXP:       lesson.BaseXP,
		Difficulty:   lesson.Difficulty,
		LessonIndex:  index,
		TotalLessons: total,
		ActualTime:   Minutes(actual),
		BaselineTime: lesson.BaselineTime,
	})
}
