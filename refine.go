// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/dw"
	"github.com/vladimir-ch/multicolor/kernel"
	"github.com/vladimir-ch/multicolor/lanes"
)

// ErrStagnated is returned by Refine when the residual stops decreasing
// and no restart is left.
var ErrStagnated = errors.New("multicolor: refinement stagnated")

// Smoother approximately solves A*x = b in single precision. ILU and
// GaussSeidel with T = float32 implement it.
type Smoother interface {
	Solve(x, b []float32)
}

// RefineSettings holds the settings of Refine. Zero values of the fields
// mean default values.
type RefineSettings struct {
	// Tolerance is the target of |b - A*x| / |b| in the 2-norm.
	// The default is 1e-12.
	Tolerance float64

	// MaxIterations is the limit on the number of refinement steps
	// over all restarts. The default is 100.
	MaxIterations int

	// MaxRestarts is the number of restarts allowed after the
	// residual stagnates. Zero allows none.
	MaxRestarts int

	// InnerSteps is the number of smoother steps per correction
	// before the first restart. Every restart doubles it.
	// The default is 1.
	InnerSteps int

	// Stagnation is the factor by which a step must reduce the best
	// residual norm seen so far. A step that does not is a stagnation.
	// The default is 0.9.
	Stagnation float64

	// Mode selects the double-word addition used to update x and to
	// accumulate the residual.
	Mode dw.Mode

	// Logger receives a Debug entry per step and an Info entry at
	// termination. If it is nil, nothing is logged.
	Logger *logrus.Entry
}

// RefineResult holds the result of Refine.
type RefineResult struct {
	// X is the solution in double-word precision.
	X []dw.Float
	// Iterations is the number of refinement steps.
	Iterations int
	// Restarts is the number of restarts done.
	Restarts int
	// ResidualNorm is the 2-norm of the residual of X.
	ResidualNorm float64
	// Runtime is an approximate duration of the refinement.
	Runtime time.Duration
}

// Refine solves A*x = b by mixed-precision iterative refinement. The
// solution is kept in double-word precision and the residual
//  r = b - A*x
// is accumulated in double-word arithmetic by kernel.ResidualExtended, so
// the attainable accuracy exceeds that of float32 although A, b and every
// correction are stored in float32. The correction d of a step solves
//  A*d = r
// approximately by InnerSteps steps of the iteration
//  d += M⁻¹(r - A*d)
// with the smoother M, starting from d = 0.
//
// If a step fails to reduce the best residual by the Stagnation factor,
// Refine restarts from the best iterate with twice the inner steps.
// When MaxRestarts restarts are used up it returns ErrStagnated, and when
// MaxIterations steps are done it returns ErrIterationLimit. In both cases
// the result holds the best iterate.
//
// Halo values of x are zero. The pool runs the residual kernels.
func Refine[I crs.Index](p *lanes.Pool, a *crs.Matrix[I, float32], b []float32, m Smoother, s RefineSettings) (RefineResult, error) {
	start := time.Now()
	owned := a.Owned()
	if len(b) != owned {
		panic("multicolor: right-hand side length mismatch")
	}
	if m == nil {
		panic("multicolor: nil smoother")
	}
	defaultRefineSettings(&s)

	x := make([]dw.Float, a.Rows())
	best := make([]dw.Float, owned)
	r := make([]float32, owned)
	d := make([]float32, a.Rows())
	q := make([]float32, owned)
	tmp := make([]float32, owned)

	bnorm := norm32(b)
	if bnorm == 0 {
		bnorm = 1
	}

	var (
		res      RefineResult
		err      error
		bestNorm = -1.0
		inner    = s.InnerSteps
	)
	for {
		kernel.ResidualExtended(p, r, a, x, b, s.Mode)
		rnorm := norm32(r)
		s.Logger.WithFields(logrus.Fields{
			"iter":     res.Iterations,
			"residual": rnorm,
			"restarts": res.Restarts,
		}).Debug("refinement step")

		if bestNorm < 0 || rnorm <= s.Stagnation*bestNorm {
			bestNorm = rnorm
			copy(best, x[:owned])
		} else {
			if res.Restarts == s.MaxRestarts {
				err = ErrStagnated
				break
			}
			res.Restarts++
			inner *= 2
			copy(x, best)
			kernel.ResidualExtended(p, r, a, x, b, s.Mode)
		}
		if bestNorm/bnorm < s.Tolerance {
			break
		}
		if res.Iterations == s.MaxIterations {
			err = ErrIterationLimit
			break
		}

		// d ≈ A⁻¹r.
		for i := range d {
			d[i] = 0
		}
		for k := 0; k < inner; k++ {
			if k == 0 {
				copy(q, r)
			} else {
				kernel.Residual(p, q, a, d, r)
			}
			m.Solve(tmp, q)
			for i, v := range tmp {
				d[i] += v
			}
		}
		dw.AddVec(x[:owned], d[:owned], s.Mode)
		res.Iterations++
	}

	res.X = best
	res.ResidualNorm = bestNorm
	res.Runtime = time.Since(start)
	fields := logrus.Fields{
		"iter":     res.Iterations,
		"residual": res.ResidualNorm,
		"restarts": res.Restarts,
		"runtime":  res.Runtime,
	}
	if err != nil {
		s.Logger.WithFields(fields).WithError(err).Info("refinement failed")
		return res, err
	}
	s.Logger.WithFields(fields).Info("refinement converged")
	return res, nil
}

func defaultRefineSettings(s *RefineSettings) {
	if s.Tolerance == 0 {
		s.Tolerance = 1e-12
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 100
	}
	if s.InnerSteps == 0 {
		s.InnerSteps = 1
	}
	if s.Stagnation == 0 {
		s.Stagnation = 0.9
	}
	if s.Logger == nil {
		s.Logger = discardLogger()
	}
	switch {
	case s.Tolerance < 0 || 1 <= s.Tolerance:
		panic("multicolor: invalid tolerance")
	case s.MaxIterations < 0, s.MaxRestarts < 0, s.InnerSteps < 0:
		panic("multicolor: negative refinement limit")
	case s.Stagnation <= 0 || 1 < s.Stagnation:
		panic("multicolor: invalid stagnation factor")
	}
}

// norm32 returns the 2-norm of x accumulated in float64.
func norm32(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
