// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/dw"
	"github.com/vladimir-ch/multicolor/internal/coloring"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/triplet"
	"github.com/vladimir-ch/multicolor/lanes"
)

// denseSolve solves the float32 system exactly in float64.
func denseSolve(a *crs.Matrix[int32, float32], b []float32) []float64 {
	n := a.Owned()
	bb := make([]float64, n)
	for i, v := range b {
		bb[i] = float64(v)
	}
	var x mat.VecDense
	if err := x.SolveVec(crs.ToDense(a), mat.NewVecDense(n, bb)); err != nil {
		panic(err)
	}
	return x.RawVector().Data
}

func TestRefine(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := lanes.New(4)
	defer pool.Close()
	for _, n := range []int{1, 10, 50, 200} {
		a := crs.Convert[int32, float32](triplet.ToCRS[int32, float64](gen.DiagDominant(n, 0.1, 0.3, rnd), n))
		b := make([]float32, n)
		for i := range b {
			b[i] = float32(rnd.NormFloat64())
		}
		want := denseSolve(a, b)

		ilu, err := NewILU0(a, PrecondSettings[int32]{Pool: pool, Partition: coloring.Levels(a)})
		if err != nil {
			t.Fatal(err)
		}
		for name, m := range map[string]Smoother{
			"ILU0":        ilu,
			"GaussSeidel": NewGaussSeidel(a, PrecondSettings[int32]{Sweeps: 3}),
		} {
			for _, p := range []*lanes.Pool{nil, pool} {
				r, err := Refine(p, a, b, m, RefineSettings{
					Tolerance:   1e-11,
					MaxRestarts: 4,
				})
				if err != nil {
					t.Errorf("n=%v %v lanes=%v: unexpected error %v", n, name, p.NumLanes(), err)
					continue
				}
				got := make([]float64, n)
				dw.ToFloat64s(got, r.X)
				// Far below the float32 unit roundoff of 6e-8.
				if dist := floats.Distance(got, want, math.Inf(1)); dist > 1e-9 {
					t.Errorf("n=%v %v lanes=%v: |want-got|=%v", n, name, p.NumLanes(), dist)
				}
			}
		}
	}
}

func TestRefineIterationLimit(t *testing.T) {
	// ILU(0) of a tridiagonal matrix is exact, so every step gains about
	// as many digits as float32 carries.
	a := triplet.ToCRS[int32, float32](gen.Poisson1D(20), 20)
	m, err := NewILU0(a, PrecondSettings[int32]{})
	if err != nil {
		t.Fatal(err)
	}
	b := make([]float32, 20)
	for i := range b {
		b[i] = 1
	}

	r, err := Refine(nil, a, b, m, RefineSettings{MaxIterations: 1})
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Iterations != 1 || r.Restarts != 0 {
		t.Errorf("got %v iterations and %v restarts", r.Iterations, r.Restarts)
	}

	r, err = Refine(nil, a, b, m, RefineSettings{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.ResidualNorm/math.Sqrt(20) >= 1e-12 {
		t.Errorf("residual norm %v", r.ResidualNorm)
	}
}

type zeroSmoother struct{}

func (zeroSmoother) Solve(x, b []float32) {
	for i := range x {
		x[i] = 0
	}
}

func TestRefineStagnated(t *testing.T) {
	a := triplet.ToCRS[int32, float32](gen.Poisson1D(4), 4)
	b := []float32{1, 2, 3, 4}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r, err := Refine(nil, a, b, zeroSmoother{}, RefineSettings{
		MaxRestarts: 2,
		Logger:      logrus.NewEntry(logger),
	})
	if !errors.Is(err, ErrStagnated) {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Restarts != 2 || r.Iterations != 3 {
		t.Errorf("got %v restarts and %v iterations, want 2 and 3", r.Restarts, r.Iterations)
	}
	// The best iterate is the initial zero vector.
	for i, v := range r.X {
		if v != (dw.Float{}) {
			t.Errorf("x[%d] = %v", i, v)
		}
	}
	if n := len(hook.AllEntries()); n != 5 {
		t.Errorf("got %v log entries, want 5", n)
	}
	last := hook.LastEntry()
	if last.Level != logrus.InfoLevel || last.Data["restarts"] != 2 {
		t.Errorf("unexpected final entry %v %v", last.Message, last.Data)
	}
}
