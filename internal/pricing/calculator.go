// Package pricing turns job attributes into the integer VND price breakdown
// that is frozen on a job at creation time.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// Complexity multipliers in percent.
var multipliers = map[models.Complexity]int64{
	models.ComplexityEasy:   100,
	models.ComplexityMedium: 120,
	models.ComplexityHard:   150,
	models.ComplexityExpert: 200,
}

const (
	wordsPerDeadlineHour   = 1000
	secondsPerDeadlineHour = 3600
	secondsPerMinute       = 60
	percent                = 100
)

// MaxDeadlineHours caps the computed deadline so it always fits a time.Duration.
const MaxDeadlineHours = 24 * 365 * 10

var (
	ErrUnknownComplexity = errors.New("unknown complexity")
	ErrOutOfRange        = errors.New("price out of range")
)

type Input struct {
	WordCount            int64
	VideoDurationSeconds int64
	Complexity           models.Complexity
	ReRecordRequired     bool
}

// MultiplierPercent returns the multiplier for c, e.g. 120 for medium.
func MultiplierPercent(c models.Complexity) (int64, bool) {
	m, ok := multipliers[c]
	return m, ok
}

// Calculate is pure: the same input and config always yield the same breakdown.
// Negative counts are treated as zero. Each component is rounded half up once.
// Inputs whose price or deadline would not fit an int64 fail with ErrOutOfRange.
func Calculate(cfg models.PricingConfig, in Input) (models.PricingData, error) {
	mult, ok := MultiplierPercent(in.Complexity)
	if !ok {
		return models.PricingData{}, fmt.Errorf("%w %q", ErrUnknownComplexity, in.Complexity)
	}

	words := clamp(in.WordCount)
	seconds := clamp(in.VideoDurationSeconds)
	ratePerWord := clamp(cfg.RatePerWord)
	ratePerMinute := clamp(cfg.RatePerMinute)
	reRecordPct := clamp(cfg.ReRecordBonusPercent)
	baseHours := clamp(cfg.BaseDeadlineHours)

	var a arith
	wordPrice := a.divRound(a.mul(a.mul(words, ratePerWord), mult), percent)
	videoPrice := a.divRound(a.mul(a.mul(seconds, ratePerMinute), mult), secondsPerMinute*percent)
	basePrice := a.add(wordPrice, videoPrice)

	// Shown to the user, never added to the final price.
	complexityBonus := a.divRound(a.mul(basePrice, mult-percent), percent)

	var reRecordBonus int64
	if in.ReRecordRequired {
		reRecordBonus = a.divRound(a.mul(basePrice, reRecordPct), percent)
	}
	finalPrice := a.add(basePrice, reRecordBonus)

	deadlineHours := a.add(a.add(baseHours, ceilDiv(words, wordsPerDeadlineHour)), ceilDiv(seconds, secondsPerDeadlineHour))
	if a.overflow {
		return models.PricingData{}, fmt.Errorf("%w: %d words, %d seconds", ErrOutOfRange, words, seconds)
	}
	if deadlineHours > MaxDeadlineHours {
		return models.PricingData{}, fmt.Errorf("%w: deadline of %d hours exceeds %d", ErrOutOfRange, deadlineHours, MaxDeadlineHours)
	}

	return models.PricingData{
		WordCount:            words,
		VideoDurationSeconds: seconds,
		RatePerWord:          ratePerWord,
		RatePerMinute:        ratePerMinute,
		Complexity:           in.Complexity,
		MultiplierPercent:    mult,
		ReRecordRequired:     in.ReRecordRequired,
		ReRecordBonusPercent: reRecordPct,
		WordPrice:            wordPrice,
		VideoPrice:           videoPrice,
		BasePrice:            basePrice,
		ComplexityBonus:      complexityBonus,
		ReRecordBonus:        reRecordBonus,
		FinalPrice:           finalPrice,
		BaseDeadlineHours:    baseHours,
		DeadlineHours:        deadlineHours,
	}, nil
}

// arith does non-negative int64 arithmetic and remembers the first overflow.
type arith struct {
	overflow bool
}

func (a *arith) mul(x, y int64) int64 {
	if x != 0 && y > math.MaxInt64/x {
		a.overflow = true
		return 0
	}
	return x * y
}

func (a *arith) add(x, y int64) int64 {
	if x > math.MaxInt64-y {
		a.overflow = true
		return 0
	}
	return x + y
}

// divRound divides non-negative n by d rounding half up.
func (a *arith) divRound(n, d int64) int64 {
	return a.add(n, d/2) / d
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func ceilDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
