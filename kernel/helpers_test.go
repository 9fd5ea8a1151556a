// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/triplet"
	"github.com/vladimir-ch/multicolor/lanes"
)

type testCase struct {
	name string
	a    *crs.Matrix[int32, float64]
}

func randomCases(rnd *rand.Rand) []testCase {
	var cases []testCase
	for _, n := range []int{1, 2, 3, 4, 5, 10, 20, 50, 100} {
		cases = append(cases, testCase{
			name: "random",
			a:    triplet.ToCRS[int32, float64](gen.DiagDominant(n, 0.2, 0.5, rnd), n),
		})
	}
	cases = append(cases,
		testCase{"poisson1d", triplet.ToCRS[int32, float64](gen.Poisson1D(17), 17)},
		testCase{"poisson2d", triplet.ToCRS[int32, float64](gen.Poisson2D(7, 5), 35)},
		testCase{"halo", withHalo(30, 6, rnd)},
	)
	return cases
}

// withHalo returns a random n-row matrix with h halo rows appended. Owned
// rows reference halo rows at random; halo rows carry only a diagonal.
func withHalo(n, h int, rnd *rand.Rand) *crs.Matrix[int32, float64] {
	owned := gen.DiagDominant(n, 0.2, 0.5, rnd)
	m := triplet.New(n+h, n+h)
	owned.Do(m.Append)
	for i := 0; i < n; i++ {
		if rnd.Float64() < 0.3 {
			m.Append(i, n+rnd.Intn(h), 0.1*(rnd.Float64()-0.5))
		}
	}
	for i := n; i < n+h; i++ {
		m.Append(i, i, 1)
	}
	return triplet.ToCRS[int32, float64](m, n)
}

func randomVec(n int, rnd *rand.Rand) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rnd.NormFloat64()
	}
	return v
}

// denseMulVec returns A*x computed with a dense copy of the owned rows.
func denseMulVec[I crs.Index, T crs.Float](a *crs.Matrix[I, T], x []float64) []float64 {
	var y mat.VecDense
	y.MulVec(crs.ToDense(a), mat.NewVecDense(len(x), x))
	return y.RawVector().Data
}

func pools() []*lanes.Pool {
	return []*lanes.Pool{nil, lanes.New(1), lanes.New(3), lanes.New(8)}
}

func closeAll(ps []*lanes.Pool) {
	for _, p := range ps {
		p.Close()
	}
}

func equalBits[T crs.Float](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
