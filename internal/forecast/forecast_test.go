package forecast

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns the same draw every time and records the requested bounds.
type fixedSource struct {
	value int
	asked []int
}

func (f *fixedSource) IntN(n int) int {
	f.asked = append(f.asked, n)
	if f.value >= n {
		return n - 1
	}
	return f.value
}

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2025, 5, day, hour, 0, 0, 0, time.UTC)
}

func TestBucketByDate(t *testing.T) {
	points := []Point{
		{Cents: 500, At: at(1, 8)},
		{Cents: 250, At: at(1, 12)},
		{Cents: 250, At: at(1, 20)},
		{Cents: 1000, At: at(2, 9)},
		{Cents: 300, At: at(4, 9)},
		{Cents: 200, At: at(4, 23)},
	}
	assert.Equal(t, []int64{1000, 1000, 500}, BucketByDate(points))
}

func TestBucketByDateSingleDay(t *testing.T) {
	points := []Point{
		{Cents: 100, At: at(3, 1)},
		{Cents: 200, At: at(3, 2)},
		{Cents: 300, At: at(3, 3)},
	}
	assert.Equal(t, []int64{600}, BucketByDate(points))
	assert.Empty(t, BucketByDate(nil))
}

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{7}, 7},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{10, 30}, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Median(tc.in), "median of %v", tc.in)
	}

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input must not be reordered")
}

func TestEstimateInsufficientData(t *testing.T) {
	e := NewEstimator(WithClock(func() time.Time { return epoch }))
	_, err := e.EstimateDepletionDate(nil, 10000)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = e.EstimateDepletionDate([]int64{500}, 10000)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEstimateJitterRangeUsesMidpoint(t *testing.T) {
	// daily totals 10 and 30: median 20, (max+min)/2 = 20, draws come from [-20, 19)
	src := &fixedSource{value: 20}
	e := NewEstimator(WithSource(src), WithClock(func() time.Time { return epoch }))

	got, err := e.EstimateDepletionDate([]int64{1000, 3000}, 10000)
	require.NoError(t, err)

	// zero jitter every day: 100 / 20 = 5 days
	assert.Equal(t, epoch.AddDate(0, 0, 5), got)
	require.NotEmpty(t, src.asked)
	for _, n := range src.asked {
		assert.Equal(t, 39, n)
	}
}

func TestEstimateLowestJitter(t *testing.T) {
	// totals 10 and 50: median 30, draws come from [-30, 29)
	src := &fixedSource{value: 10}
	e := NewEstimator(WithSource(src), WithClock(func() time.Time { return epoch }))

	// draw 10 -> jitter -20; median 30 -> 10 per day; 100 lasts 10 days
	got, err := e.EstimateDepletionDate([]int64{1000, 5000}, 10000)
	require.NoError(t, err)
	assert.Equal(t, epoch.AddDate(0, 0, 10), got)
}

func TestEstimateAlreadyEmpty(t *testing.T) {
	e := NewEstimator(WithClock(func() time.Time { return epoch }))
	got, err := e.EstimateDepletionDate([]int64{1000, 2000}, 0)
	require.NoError(t, err)
	assert.Equal(t, epoch, got)
}

func TestEstimateNoDepletion(t *testing.T) {
	e := NewEstimator(WithMaxDays(100), WithClock(func() time.Time { return epoch }))
	_, err := e.EstimateDepletionDate([]int64{0, 0}, 10000)
	assert.ErrorIs(t, err, ErrNoDepletion)
}

func TestEstimateMonotonicInBalance(t *testing.T) {
	daily := []int64{1200, 800, 2500, 400, 1900}
	var prev time.Time
	for balance := int64(0); balance <= 500000; balance += 7500 {
		e := NewEstimator(
			WithSource(rand.New(rand.NewPCG(42, 7))),
			WithClock(func() time.Time { return epoch }),
		)
		got, err := e.EstimateDepletionDate(daily, balance)
		require.NoError(t, err)
		assert.False(t, got.Before(prev), "balance %d projected %v before %v", balance, got, prev)
		prev = got
	}
}

func TestEstimateSeededIsRepeatable(t *testing.T) {
	daily := []int64{1200, 800, 2500}
	run := func() time.Time {
		e := NewEstimator(
			WithSource(rand.New(rand.NewPCG(1, 2))),
			WithClock(func() time.Time { return epoch }),
		)
		got, err := e.EstimateDepletionDate(daily, 100000)
		require.NoError(t, err)
		return got
	}
	assert.Equal(t, run(), run())
}
