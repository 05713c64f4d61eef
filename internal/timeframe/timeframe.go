// Package timeframe provides time bucketing helpers for analytics queries.
// All rollup day boundaries are UTC midnight regardless of client timezone.
package timeframe

import (
	"fmt"
	"time"
)

// DateStat is a generic (bucket, count) pair returned by trend queries.
type DateStat struct {
	Date  string
	Count int
}

// TimeProvider abstracts the clock so day-boundary logic is testable.
type TimeProvider interface {
	Now(loc *time.Location) time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// Now returns the current time in the given location.
func (p *DefaultTimeProvider) Now(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// FixedTimeProvider always returns the same instant. Intended for tests.
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed instant in the given location.
func (p *FixedTimeProvider) Now(loc *time.Location) time.Time {
	return p.Time.In(loc)
}

// UTCDay truncates a timestamp to UTC midnight of the day it falls on.
func UTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentUTCDay returns today's UTC day boundary from the given provider.
func CurrentUTCDay(p TimeProvider) time.Time {
	return UTCDay(p.Now(time.UTC))
}

// TrailingWindow returns the [from, to] interval covering the trailing
// number of days ending now. from is truncated to a UTC day boundary so the
// window lines up with rollup rows.
func TrailingWindow(p TimeProvider, days int) (time.Time, time.Time, error) {
	if days <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("days must be positive: %d", days)
	}
	now := p.Now(time.UTC)
	from := UTCDay(now.AddDate(0, 0, -(days - 1)))
	return from, now, nil
}

// CalculateTrend returns the least-squares slope over a series of counts.
// A positive slope means the metric is growing day over day.
func CalculateTrend(points []DateStat) float64 {
	if len(points) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(points))

	for i, point := range points {
		x := float64(i)
		y := float64(point.Count)

		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	return slope
}
