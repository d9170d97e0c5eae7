// Package height estimates row heights of large virtualized lists by
// measuring a logarithmic sample of the items.
package height

import (
	"fmt"
	"math/bits"

	"viewspec/internal/model"
)

// Measurer performs one real measurement.
type Measurer interface {
	Measure(obj model.Handle, frag model.FragID, width int) (int, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(obj model.Handle, frag model.FragID, width int) (int, error)

func (f MeasurerFunc) Measure(obj model.Handle, frag model.FragID, width int) (int, error) {
	return f(obj, frag, width)
}

// Estimator returns a running estimate of item height. Only calls whose
// ordinal (per width) is a power of two measure; all others return the
// cached estimate. Not safe for concurrent use.
type Estimator struct {
	m Measurer

	width    int
	calls    uint64
	samples  int
	estimate int
	measured int
}

// NewEstimator wraps m.
func NewEstimator(m Measurer) *Estimator {
	return &Estimator{m: m}
}

// EstimateHeight returns the estimate for an item displayed with frag at
// width. Changing the width restarts sampling.
func (e *Estimator) EstimateHeight(obj model.Handle, frag model.FragID, width int) (int, error) {
	if width != e.width {
		e.width = width
		e.calls = 0
		e.samples = 0
		e.estimate = 0
	}
	e.calls++
	if bits.OnesCount64(e.calls) != 1 {
		return e.estimate, nil
	}
	h, err := e.m.Measure(obj, frag, width)
	if err != nil {
		return e.estimate, fmt.Errorf("measure object %d: %w", obj, err)
	}
	e.measured++
	e.samples++
	// new sample counts once among the previous ones
	e.estimate = (e.estimate*(e.samples-1) + h) / e.samples
	return e.estimate, nil
}

// Estimate returns the cached value without sampling.
func (e *Estimator) Estimate() int { return e.estimate }

// Measurements counts real measurements over the estimator's lifetime.
func (e *Estimator) Measurements() int { return e.measured }
