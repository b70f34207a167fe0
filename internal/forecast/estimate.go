package forecast

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

var (
	// ErrInsufficientData is returned when fewer than two days of spending are known.
	ErrInsufficientData = errors.New("not enough data")
	// ErrNoDepletion is returned when the balance survives the whole horizon.
	ErrNoDepletion = errors.New("balance does not deplete within horizon")
)

// DefaultMaxDays bounds the simulation to roughly a century.
const DefaultMaxDays = 36500

// Source yields uniform integers in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Estimator simulates day-by-day spending until a balance is used up.
type Estimator struct {
	rnd     Source
	now     func() time.Time
	maxDays int
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithSource sets the random source used for daily jitter.
func WithSource(src Source) Option {
	return func(e *Estimator) { e.rnd = src }
}

// WithClock sets the time the projection starts from.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

// WithMaxDays caps the number of simulated days.
func WithMaxDays(days int) Option {
	return func(e *Estimator) {
		if days > 0 {
			e.maxDays = days
		}
	}
}

// NewEstimator returns an Estimator using the shared math/rand/v2 source and the wall clock.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{rnd: globalSource{}, now: time.Now, maxDays: DefaultMaxDays}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EstimateDepletionDate projects the day balanceCents reaches zero given the
// per-day totals produced by BucketByDate.
//
// Each simulated day spends the median daily total plus a uniform integer
// jitter drawn from [-mid, mid-1), where mid is (max+min)/2 of the daily
// totals. Amounts are simulated in whole currency units.
func (e *Estimator) EstimateDepletionDate(dailyCents []int64, balanceCents int64) (time.Time, error) {
	if len(dailyCents) < 2 {
		return time.Time{}, ErrInsufficientData
	}

	daily := make([]float64, len(dailyCents))
	for i, c := range dailyCents {
		daily[i] = float64(c) / 100
	}
	median := Median(daily)
	mid := (slices.Max(daily) + slices.Min(daily)) / 2
	lo, hi := int(math.Trunc(-mid)), int(math.Trunc(mid-1))

	balance := float64(balanceCents) / 100
	days := 0
	for balance > 0 {
		if days >= e.maxDays {
			return time.Time{}, ErrNoDepletion
		}
		balance -= median + float64(e.jitter(lo, hi))
		days++
	}
	return e.now().AddDate(0, 0, days), nil
}

// jitter draws from [lo, hi); an empty range yields 0.
func (e *Estimator) jitter(lo, hi int) int {
	if hi <= lo {
		return 0
	}
	return lo + e.rnd.IntN(hi-lo)
}
