// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BiCGSTAB implements the right-preconditioned BiConjugate Gradient
// STABilized method for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix. Every iteration applies the
// preconditioner twice and A twice, and checks the residual after each
// half step. For symmetric positive definite systems use CG.
//
// The Gauss-Seidel preconditioner is not symmetric, so BiCGSTAB and GMRES
// are the methods to use it with.
//
// BiCGSTAB needs MatVec and PSolve matrix operations.
type BiCGSTAB struct {
	first  bool
	resume int

	rho, rhoPrev float64
	alpha, omega float64

	rhat []float64 // Shadow residual r̂ = r_0.
	p    []float64
	v    []float64 // A y
	t    []float64 // A z
	y    []float64 // M⁻¹ p
	z    []float64 // M⁻¹ s
	s    []float64 // Residual after the half step.
}

// Init implements the Method interface.
func (b *BiCGSTAB) Init(dim int) {
	if dim <= 0 {
		panic("multicolor: dimension not positive")
	}

	b.rhat = reuse(b.rhat, dim)
	b.p = reuse(b.p, dim)
	b.v = reuse(b.v, dim)
	b.t = reuse(b.t, dim)
	b.y = reuse(b.y, dim)
	b.z = reuse(b.z, dim)
	b.s = reuse(b.s, dim)
	b.first = true
	b.resume = 1
}

// Iterate implements the Method interface.
func (b *BiCGSTAB) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		r := ctx.Residual
		if b.first {
			copy(b.rhat, r)
		}
		b.rho = floats.Dot(b.rhat, r) // ρ_i = r̂ · r_{i-1}
		if math.Abs(b.rho) < dlamchE*dlamchE {
			return b.breakdown("ρ vanished")
		}
		if b.first {
			copy(b.p, r)
		} else {
			// p_i = r_{i-1} + β (p_{i-1} - ω_{i-1} v_{i-1})
			beta := (b.rho / b.rhoPrev) * (b.alpha / b.omega)
			floats.AddScaled(b.p, -b.omega, b.v)
			floats.AddScaledTo(b.p, r, beta, b.p)
		}
		return b.request(ctx, 3, PSolve, b.p, b.y)
	case 3:
		return b.request(ctx, 4, MatVec, b.y, b.v)
	case 4:
		rv := floats.Dot(b.rhat, b.v)
		if rv == 0 {
			return b.breakdown("r̂·v is zero")
		}
		// α = ρ_i / (r̂ · v_i), s = r_{i-1} - α v_i
		b.alpha = b.rho / rv
		floats.AddScaledTo(b.s, ctx.Residual, -b.alpha, b.v)
		copy(ctx.Residual, b.s)
		return b.check(ctx, 5)
	case 5:
		if ctx.Converged {
			floats.AddScaled(ctx.X, b.alpha, b.y) // x_i = x_{i-1} + α y
			b.resume = 0
			return EndIteration, nil
		}
		return b.request(ctx, 6, PSolve, b.s, b.z)
	case 6:
		return b.request(ctx, 7, MatVec, b.z, b.t)
	case 7:
		// ω = (t · s) / (t · t). A zero t means s is zero and the half
		// step was exact.
		if tt := floats.Dot(b.t, b.t); tt != 0 {
			b.omega = floats.Dot(b.t, b.s) / tt
		} else {
			b.omega = 0
		}
		// x_i = x_{i-1} + α y + ω z, r_i = s - ω t
		floats.AddScaled(ctx.X, b.alpha, b.y)
		floats.AddScaled(ctx.X, b.omega, b.z)
		floats.AddScaled(ctx.Residual, -b.omega, b.t)
		return b.check(ctx, 8)
	case 8:
		if ctx.Converged {
			b.resume = 0
			return EndIteration, nil
		}
		if math.Abs(b.omega) < dlamchE*dlamchE {
			return b.breakdown("ω vanished")
		}
		b.rhoPrev = b.rho
		b.first = false
		b.resume = 1
		return EndIteration, nil

	default:
		panic("multicolor: BiCGSTAB.Init not called")
	}
}

// request asks for op applied to src with the result in dst, and resumes
// at next.
func (b *BiCGSTAB) request(ctx *Context, next int, op Operation, src, dst []float64) (Operation, error) {
	ctx.Src, ctx.Dst = src, dst
	b.resume = next
	return op, nil
}

func (b *BiCGSTAB) check(ctx *Context, next int) (Operation, error) {
	ctx.Src, ctx.Dst = nil, nil
	ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
	ctx.Converged = false
	b.resume = next
	return CheckResidualNorm, nil
}

func (b *BiCGSTAB) breakdown(what string) (Operation, error) {
	b.resume = 0 // Calling Iterate again without Init will panic.
	return NoOperation, fmt.Errorf("%w: BiCGSTAB: %s", ErrBreakdown, what)
}
