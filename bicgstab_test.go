// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/vladimir-ch/multicolor/internal/coloring"
	"github.com/vladimir-ch/multicolor/lanes"
)

func TestBiCGSTAB(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	var cases []testCase
	for _, n := range []int{1, 2, 3, 4, 5, 10, 20, 50, 100, 200} {
		cases = append(cases, randomSPD(n, rnd))
		tc, _ := randomCRS(n, rnd)
		cases = append(cases, tc)
	}
	tc, _ := poisson2D(10, 10)
	cases = append(cases, tc)

	for _, tc := range cases {
		n := tc.n
		b, want := rhs(tc.a, n)
		r, err := LinearSolve(tc.a, b, &BiCGSTAB{}, Settings{
			MaxIterations: tc.iters,
			Tolerance:     1e-12,
		})
		if err != nil {
			t.Errorf("Case %v (n=%v): unexpected error %v", tc.name, n, err)
			continue
		}
		dist := floats.Distance(r.X, want, math.Inf(1))
		if dist > tc.tol {
			t.Errorf("Case %v (n=%v): unexpected solution, |want-got|=%v", tc.name, n, dist)
		}
	}
}

func TestBiCGSTABPreconditioned(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := lanes.New(3)
	defer pool.Close()
	for _, n := range []int{5, 50, 300} {
		tc, a := randomCRS(n, rnd)
		b, want := rhs(tc.a, n)
		ilu, err := NewILU0(a, PrecondSettings[int32]{Pool: pool, Partition: coloring.Levels(a)})
		if err != nil {
			t.Fatal(err)
		}
		for name, m := range map[string]Preconditioner{
			"ILU0":        ilu,
			"GaussSeidel": NewGaussSeidel(a, PrecondSettings[int32]{Pool: pool, Partition: coloring.Greedy(a), Sweeps: 2}),
		} {
			r, err := LinearSolve(CRSOps(pool, a, nil), b, &BiCGSTAB{}, Settings{
				MaxIterations: tc.iters,
				Tolerance:     1e-12,
				PSolve:        m.PSolve,
			})
			if err != nil {
				t.Errorf("Case %v with %v: unexpected error %v", tc.name, name, err)
				continue
			}
			if dist := floats.Distance(r.X, want, math.Inf(1)); dist > tc.tol {
				t.Errorf("Case %v with %v: unexpected solution, |want-got|=%v", tc.name, name, dist)
			}
		}
	}
}
