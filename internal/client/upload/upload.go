// Package upload runs multi-item uploads one after another and folds the
// per-item progress into one monotonic percentage.
package upload

import (
	"context"
	"errors"
	"math"
	"sync"
)

// ErrNothingToUpload is returned for an empty batch.
var ErrNothingToUpload = errors.New("nothing to upload")

// Overall is the aggregate percentage when item i (0-based) of n has reached
// p percent: each item weighs 100/n and earlier items count in full.
func Overall(i, n, p int) int {
	if n <= 0 {
		return 0
	}
	p = min(max(p, 0), 100)
	w := 100.0 / float64(n)
	v := int(math.Floor(w*float64(i) + float64(p)/100*w + 0.5))
	return min(max(v, 0), 100)
}

// Aggregator publishes a value that never decreases.
type Aggregator struct {
	mu      sync.Mutex
	current int
	report  func(int)
}

func NewAggregator(report func(int)) *Aggregator {
	return &Aggregator{report: report}
}

// Observe publishes v if it exceeds everything published so far.
func (a *Aggregator) Observe(v int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v <= a.current {
		return
	}
	a.current = v
	if a.report != nil {
		a.report(v)
	}
}

// Complete forces the value to 100.
func (a *Aggregator) Complete() { a.Observe(100) }

func (a *Aggregator) Current() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Step uploads item i and reports its own progress through progress.
type Step[T any] func(ctx context.Context, i int, progress func(percent int)) (T, error)

// Run executes n steps strictly in order. Item i+1 starts only after item i
// settled. The first failure stops the batch: finished items are kept and not
// retried, and the aggregate stays where it was. percent is the last value
// published.
func Run[T any](ctx context.Context, n int, step Step[T], report func(int)) (results []T, percent int, err error) {
	if n <= 0 {
		return nil, 0, ErrNothingToUpload
	}
	agg := NewAggregator(report)
	results = make([]T, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, agg.Current(), err
		}
		res, err := step(ctx, i, func(p int) { agg.Observe(Overall(i, n, p)) })
		if err != nil {
			return results, agg.Current(), err
		}
		results = append(results, res)
		agg.Observe(Overall(i+1, n, 0))
	}
	agg.Complete()
	return results, agg.Current(), nil
}
