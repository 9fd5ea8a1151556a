// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/triplet"
)

type testCase struct {
	name  string
	n     int
	a     MatrixOps
	iters int
	tol   float64
}

// randomSPD returns a dense symmetric positive definite test case.
func randomSPD(n int, rnd *rand.Rand) testCase {
	a := make([]float64, n*n)
	lda := n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a[i*lda+j] = rnd.Float64()
		}
	}
	for i := 0; i < n; i++ {
		a[i*lda+i] += float64(n)
	}
	bi := blas64.Implementation()
	return testCase{
		name: fmt.Sprintf("randomSPD%d", n),
		n:    n,
		a: MatrixOps{
			MatVec: func(dst, x []float64) {
				bi.Dsymv(blas.Upper, n, 1, a, lda, x, 1, 0, dst, 1)
			},
		},
		iters: 2 * n,
		tol:   1e-10,
	}
}

// randomCRS returns a non-symmetric diagonally dominant sparse test case.
func randomCRS(n int, rnd *rand.Rand) (testCase, *crs.Matrix[int32, float64]) {
	a := triplet.ToCRS[int32, float64](gen.DiagDominant(n, 0.2, 0.5, rnd), n)
	return crsCase(fmt.Sprintf("randomCRS%d", n), a), a
}

func poisson2D(nx, ny int) (testCase, *crs.Matrix[int32, float64]) {
	a := triplet.ToCRS[int32, float64](gen.Poisson2D(nx, ny), nx*ny)
	return crsCase(fmt.Sprintf("poisson%dx%d", nx, ny), a), a
}

func crsCase(name string, a *crs.Matrix[int32, float64]) testCase {
	return testCase{
		name:  name,
		n:     a.Owned(),
		a:     CRSOps(nil, a, nil),
		iters: 10 * a.Owned(),
		tol:   1e-8,
	}
}

// rhs returns b = A*[1,...,1] and the solution [1,...,1].
func rhs(a MatrixOps, n int) (b, want []float64) {
	want = gen.Ones(n)
	b = make([]float64, n)
	a.MatVec(b, want)
	return b, want
}
