// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multicolor provides iterative solvers for sparse linear systems
// whose preconditioners run in parallel over the colors of a multicolor
// ordering.
//
// The Krylov methods CG, BiCGSTAB and GMRES use a reverse-communication
// interface and are driven by LinearSolve. The matrix and the
// preconditioner are supplied as functions, and CRSOps, ILU and
// GaussSeidel build them from a crs.Matrix using the kernels in package
// kernel. Refine runs mixed-precision iterative refinement with a
// double-word solution vector.
package multicolor

import "errors"

// ErrIterationLimit is returned when a solver stops at its iteration limit
// without convergence.
var ErrIterationLimit = errors.New("multicolor: iteration limit reached")

// ErrBreakdown is returned when a Krylov method cannot continue because a
// scalar it divides by vanished.
var ErrBreakdown = errors.New("multicolor: breakdown")

// Operation specifies the type of operation.
type Operation uint64

// Operations commanded by Method.Iterate.
const (
	NoOperation Operation = 0

	// Multiply A*x where x is stored in Context.Src and the result will
	// be stored in Context.Dst.
	MatVec Operation = 1 << (iota - 1)

	// Do the preconditioner solve
	//  M z = r,
	// where r is stored in Context.Src, and store the solution z in
	// Context.Dst.
	PSolve

	// Compute b - A*x where x is stored in Context.X and store the result
	// into Context.Residual.
	ComputeResidual

	// Check convergence using the residual norm in Context.ResidualNorm.
	// The caller sets Context.Converged accordingly before calling
	// Method.Iterate again.
	CheckResidualNorm

	// EndIteration indicates that Method has finished what it considers
	// to be one iteration. If Context.Converged is true, the iterative
	// process must be terminated, and Method.Init must be called before
	// calling Method.Iterate again.
	EndIteration
)

func (op Operation) String() string {
	switch op {
	case NoOperation:
		return "NoOperation"
	case MatVec:
		return "MatVec"
	case PSolve:
		return "PSolve"
	case ComputeResidual:
		return "ComputeResidual"
	case CheckResidualNorm:
		return "CheckResidualNorm"
	case EndIteration:
		return "EndIteration"
	}
	return "Operation(?)"
}

// Method is an iterative method that produces a sequence of vectors converging
// to the vector x satisfying a system of linear equations
//  A x = b,
// where A is non-singular dim×dim matrix, and x and b are vectors of dimension
// dim.
//
// Method uses a reverse-communication interface between the iterative algorithm
// and the caller. Method acts as a client that commands the caller to perform
// needed operations via Operation returned from Iterate methods. This provides
// independence of Method on representation of the matrix A, and enables
// automation of common operations like checking for convergence and maintaining
// statistics.
type Method interface {
	// Init initializes the method for solving an dim×dim linear system.
	Init(dim int)

	// Iterate retrieves data from Context, updates it, and returns the next
	// operation. The caller must perform the Operation using data in
	// Context, and depending on the state call Iterate again.
	Iterate(*Context) (Operation, error)
}

// Context mediates the communication between a Method and the caller. It must
// not be modified or accessed apart from the commanded Operations.
type Context struct {
	// X is the current approximate solution. On the first call to
	// Method.Iterate, X must contain the initial estimate. Method must
	// update X with the current estimate when it commands ComputeResidual
	// and EndIteration.
	X []float64
	// Residual is the current residual b-A*x. On the first call to
	// Method.Iterate, Residual must contain the initial residual.
	Residual []float64
	// ResidualNorm is (an estimate of) the norm of the current residual.
	// Method must update it when it commands CheckResidualNorm. GMRES
	// estimates it without forming the residual.
	ResidualNorm float64
	// Converged indicates to Method that the ResidualNorm satisfies the
	// stopping criterion as a result of CheckResidualNorm operation.
	Converged bool

	// Src and Dst are the source and destination vectors for MatVec and
	// PSolve.
	Src, Dst []float64
}

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	return v[:n]
}

const dlamchE = 1.0 / (1 << 53)
