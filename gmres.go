// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// GMRES implements the restarted Generalized Minimal RESidual method with
// left preconditioning for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix.
//
// The inner iterations monitor the norm of the preconditioned residual.
// When it satisfies the tolerance or the Krylov basis is full, the solution
// is updated and the true residual is checked. If it has not converged,
// the method restarts from the updated solution.
//
// GMRES needs MatVec and PSolve matrix operations. Every Arnoldi step is
// counted as one iteration.
type GMRES struct {
	// Restart is the restart parameter.
	// It must be 0 <= Restart <= dim.
	// If it is 0, it will be set to dim.
	Restart int

	resume int
	k      int // Number of columns of the Krylov basis.

	s  []float64
	w  []float64
	y  []float64
	av []float64

	v    []float64
	ldv  int
	h    []float64
	ldh  int
	givs []givens
}

type givens struct {
	c, s float64
}

// Init implements the Method interface.
func (g *GMRES) Init(dim int) {
	if dim <= 0 {
		panic("multicolor: dimension not positive")
	}
	if g.Restart < 0 || dim < g.Restart {
		panic("multicolor: invalid GMRES.Restart")
	}

	k := g.Restart
	if k == 0 {
		k = dim
	}
	g.s = reuse(g.s, k+1)
	g.w = reuse(g.w, dim)
	g.y = reuse(g.y, k)
	g.av = reuse(g.av, dim)

	g.ldv = dim
	g.v = reuse(g.v, g.ldv*(k+1))
	g.ldh = k + 1
	g.h = reuse(g.h, g.ldh*k)
	if cap(g.givs) < k {
		g.givs = make([]givens, k)
	} else {
		g.givs = g.givs[:k]
	}

	g.resume = 1
}

func (g *GMRES) restart() int { return len(g.givs) }

// Iterate implements the Method interface.
func (g *GMRES) Iterate(ctx *Context) (Operation, error) {
	n := len(ctx.X)
	ldv := g.ldv
	switch g.resume {
	case 1:
		// Construct the first column of V.
		ctx.Src = ctx.Residual
		ctx.Dst = g.v[:n]
		g.resume = 2
		return PSolve, nil
		// Solve M V[:,0] = r.
	case 2:
		rnorm := floats.Norm(g.v[:n], 2)
		if rnorm == 0 {
			// The residual is not small enough, yet M⁻¹r vanished.
			g.resume = 0
			return NoOperation, fmt.Errorf("%w: preconditioned residual is zero", ErrBreakdown)
		}
		floats.Scale(1/rnorm, g.v[:n])
		// Initialize s to the elementary vector e_1 scaled by rnorm.
		for i := range g.s {
			g.s[i] = 0
		}
		g.s[0] = rnorm
		g.k = 0
		fallthrough
	case 3:
		i := g.k
		ctx.Src = g.v[i*ldv : i*ldv+n]
		ctx.Dst = g.av
		g.resume = 4
		return MatVec, nil
		// Compute A V[:,i].
	case 4:
		ctx.Src = g.av
		ctx.Dst = g.w
		g.resume = 5
		return PSolve, nil
		// Solve M w = A V[:,i].
	case 5:
		i := g.k
		ldh := g.ldh

		// Construct the i-th column of the upper Hessenberg matrix using
		// the modified Gram-Schmidt process so that w is orthogonal to
		// the columns of V.
		hi := g.h[i*ldh : i*ldh+i+2]
		for k := 0; k <= i; k++ {
			vk := g.v[k*ldv : k*ldv+n]
			hki := floats.Dot(vk, g.w)
			hi[k] = hki
			floats.AddScaled(g.w, -hki, vk)
		}
		wnorm := floats.Norm(g.w, 2)
		hi[i+1] = wnorm // H[i+1,i] = |w|
		if wnorm != 0 {
			vip1 := g.v[(i+1)*ldv : (i+1)*ldv+n]
			copy(vip1, g.w)
			floats.Scale(1/wnorm, vip1)
		}

		// Apply the previous Givens rotations to the i-th column of H.
		for j := 0; j < i; j++ {
			hi[j], hi[j+1] = rotvec(hi[j], hi[j+1], g.givs[j])
		}
		// Compute the Givens rotation that zeroes H[i+1,i] and apply it
		// to H and to (s[i], s[i+1]).
		g.givs[i] = drotg(hi[i], hi[i+1])
		hi[i], hi[i+1] = rotvec(hi[i], hi[i+1], g.givs[i])
		g.s[i], g.s[i+1] = rotvec(g.s[i], g.s[i+1], g.givs[i])
		g.k++

		// Approximate the residual norm and check for convergence.
		ctx.ResidualNorm = math.Abs(g.s[i+1])
		ctx.Src = nil
		ctx.Dst = nil
		ctx.Converged = false
		g.resume = 6
		return CheckResidualNorm, nil
	case 6:
		if ctx.Converged || g.k == g.restart() {
			g.resume = 7
			return NoOperation, nil
		}
		g.resume = 3
		return EndIteration, nil
	case 7:
		// Compute the approximate solution x and the true residual.
		g.update(ctx.X)
		g.resume = 8
		return ComputeResidual, nil
	case 8:
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		g.resume = 9
		return CheckResidualNorm, nil
	case 9:
		if ctx.Converged {
			g.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		g.resume = 1
		return EndIteration, nil

	default:
		panic("multicolor: GMRES.Init not called")
	}
}

// update adds V[:,:k]*y to x, where y solves H[:k,:k]*y = s[:k].
func (g *GMRES) update(x []float64) {
	k := g.k
	y := g.y[:k]
	copy(y, g.s[:k])
	// H is upper triangular but stored in column-major order while Dtrsv
	// expects row-major, so solve with the transpose of the lower
	// triangle.
	blas64.Implementation().Dtrsv(blas.Lower, blas.Trans, blas.NonUnit, k, g.h, g.ldh, y, 1)
	n := len(x)
	for j := 0; j < k; j++ {
		floats.AddScaled(x, y[j], g.v[j*g.ldv:j*g.ldv+n])
	}
}

func drotg(a, b float64) givens {
	if b == 0 {
		return givens{c: 1, s: 0}
	}
	if math.Abs(b) > math.Abs(a) {
		tmp := -a / b
		s := 1 / math.Sqrt(1+tmp*tmp)
		return givens{c: tmp * s, s: s}
	}
	tmp := -b / a
	c := 1 / math.Sqrt(1+tmp*tmp)
	return givens{c: c, s: tmp * c}
}

func rotvec(x, y float64, g givens) (rx, ry float64) {
	rx = g.c*x - g.s*y
	ry = g.s*x + g.c*y
	return
}
