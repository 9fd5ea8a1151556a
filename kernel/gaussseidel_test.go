// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/internal/coloring"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/triplet"
	"github.com/vladimir-ch/multicolor/lanes"
)

func residualNorm(a *crs.Matrix[int32, float64], x, b []float64) float64 {
	r := make([]float64, a.Owned())
	Residual(nil, r, a, x, b)
	return floats.Norm(r, math.Inf(1))
}

func TestGaussSeidelResidualNonIncreasing(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 5, 10, 50, 200} {
		a := triplet.ToCRS[int32, float64](gen.DiagDominant(n, 0.2, 0.1, rnd), n)
		b := randomVec(n, rnd)
		x := make([]float64, n)
		prev := residualNorm(a, x, b)
		for sweep := 0; sweep < 30; sweep++ {
			GaussSeidel(nil, a, x, b)
			res := residualNorm(a, x, b)
			// Rounding noise may grow the residual once it is at the
			// level of machine precision.
			if res > prev && res > 1e-13 {
				t.Errorf("n=%v sweep %v: residual increased from %v to %v", n, sweep, prev, res)
			}
			prev = res
		}
		if prev > 1e-10*floats.Norm(b, math.Inf(1)) {
			t.Errorf("n=%v: no convergence, residual %v", n, prev)
		}
	}
}

func TestGaussSeidelSingleRow(t *testing.T) {
	a := crs.New(1, []float64{4}, nil, []int{0, 0}, nil)
	x := []float64{0}
	GaussSeidel(nil, a, x, []float64{2})
	if x[0] != 0.5 {
		t.Errorf("got %v, want 0.5", x[0])
	}
}

func TestGaussSeidelColoredFixedPoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := lanes.New(4)
	defer pool.Close()
	for _, n := range []int{3, 10, 50, 200} {
		a := triplet.ToCRS[int32, float64](gen.DiagDominant(n, 0.1, 0.3, rnd), n)
		part := coloring.Greedy(a)
		if err := coloring.Check(a, part, false); err != nil {
			t.Fatalf("n=%v: invalid coloring: %v", n, err)
		}
		b := randomVec(n, rnd)
		seq := make([]float64, n)
		col := make([]float64, n)
		for sweep := 0; sweep < 60; sweep++ {
			GaussSeidel(nil, a, seq, b)
			GaussSeidelColored(pool, a, part, col, b)
		}
		if dist := floats.Distance(seq, col, math.Inf(1)); dist > 1e-10 {
			t.Errorf("n=%v: fixed points differ by %v", n, dist)
		}
		if res := residualNorm(a, col, b); res > 1e-10 {
			t.Errorf("n=%v: colored residual %v", n, res)
		}
	}
}

func TestGaussSeidelColoredMatchesSequential(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ps := pools()
	defer closeAll(ps)
	for _, tc := range randomCases(rnd) {
		a := tc.a
		b := randomVec(a.Owned(), rnd)
		x0 := randomVec(a.Rows(), rnd)
		want := append([]float64(nil), x0...)
		GaussSeidel(nil, a, want, b)
		GaussSeidel(nil, a, want, b)

		for _, part := range []*crs.Partition[int32]{
			coloring.Sequential[int32](a.Owned()),
			coloring.Levels(a),
		} {
			for _, p := range ps {
				got := append([]float64(nil), x0...)
				GaussSeidelColored(p, a, part, got, b)
				GaussSeidelColored(p, a, part, got, b)
				if !equalBits(got, want) {
					t.Errorf("Case %v (n=%v, colors=%v, lanes=%v): colored sweep differs from sequential",
						tc.name, a.Owned(), part.NumColors(), p.NumLanes())
				}
			}
		}
	}
}
