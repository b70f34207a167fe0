// Package forecast projects when an account balance runs out from its
// historical daily spending.
package forecast

import (
	"slices"
	"time"
)

// Point is one expense amount at the moment it was paid.
type Point struct {
	Cents int64
	At    time.Time
}

// BucketByDate merges points that share a calendar day into a single total.
// Points must be ordered by time; the result keeps that order, one entry per day.
// Days are compared in each point's own location.
func BucketByDate(points []Point) []int64 {
	var totals []int64
	for i, p := range points {
		if i > 0 && sameDay(points[i-1].At, p.At) {
			totals[len(totals)-1] += p.Cents
			continue
		}
		totals = append(totals, p.Cents)
	}
	return totals
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Median returns the middle value of xs, averaging the two middle values when
// len(xs) is even. xs is not modified. Median of an empty slice is 0.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
