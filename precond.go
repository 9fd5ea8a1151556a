// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"errors"
	"fmt"
	"math"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/kernel"
	"github.com/vladimir-ch/multicolor/lanes"
)

// ErrSingular is returned when a factorization produces a pivot below the
// singularity tolerance.
var ErrSingular = errors.New("multicolor: singular pivot")

// Preconditioner applies M⁻¹ to a vector. Its PSolve method can be used as
// Settings.PSolve.
type Preconditioner interface {
	PSolve(dst, rhs []float64) error
}

// PrecondSettings holds the settings shared by the preconditioners.
type PrecondSettings[I crs.Index] struct {
	// Pool runs the kernels. A nil pool runs them on the calling
	// goroutine.
	Pool *lanes.Pool

	// Partition is the multicolor ordering of the owned rows. If it
	// is nil, the kernels run row by row in index order. Factorization
	// kernels require an ordering in which every dependency points to
	// an earlier color.
	Partition *crs.Partition[I]

	// SingularTol is the smallest pivot magnitude accepted by the
	// factorizations. A zero or NaN pivot is always rejected.
	SingularTol float64

	// Sweeps is the number of Gauss-Seidel sweeps per application.
	// If it is zero, one sweep is done.
	Sweeps int
}

// ILU is an incomplete LU preconditioner, either ILU(0) or DILU, stored in
// the precision T.
type ILU[I crs.Index, T crs.Float] struct {
	pool *lanes.Pool
	part *crs.Partition[I]
	lu   *crs.Matrix[I, T]
	inv  []T // Reciprocal DILU diagonal, nil for ILU(0).

	x, b []T
}

// NewILU0 returns the ILU(0) preconditioner of a. The factorization works
// on a copy of the coefficients.
func NewILU0[I crs.Index, T crs.Float](a *crs.Matrix[I, T], s PrecondSettings[I]) (*ILU[I, T], error) {
	m := newILU(a, s)
	if m.part != nil {
		kernel.FactorILU0Colored(m.pool, m.lu, m.part)
	} else {
		kernel.FactorILU0(m.lu)
	}
	if err := checkPivots(m.lu, s.SingularTol); err != nil {
		return nil, err
	}
	return m, nil
}

// NewDILU returns the DILU preconditioner M = (D+L) D⁻¹ (D+U) of a, where
// D is the DILU diagonal.
func NewDILU[I crs.Index, T crs.Float](a *crs.Matrix[I, T], s PrecondSettings[I]) (*ILU[I, T], error) {
	m := newILU(a, s)
	if m.part != nil {
		kernel.FactorDILUColored(m.pool, m.lu, m.part)
	} else {
		kernel.FactorDILU(m.lu)
	}
	if err := checkPivots(m.lu, s.SingularTol); err != nil {
		return nil, err
	}
	m.inv = make([]T, a.Owned())
	kernel.Reciprocal(m.pool, m.inv, m.lu)
	return m, nil
}

func newILU[I crs.Index, T crs.Float](a *crs.Matrix[I, T], s PrecondSettings[I]) *ILU[I, T] {
	return &ILU[I, T]{
		pool: s.Pool,
		part: checkPartition(s.Partition, a.Owned()),
		lu:   a.Clone(),
	}
}

func checkPivots[I crs.Index, T crs.Float](a *crs.Matrix[I, T], tol float64) error {
	for i := 0; i < a.Owned(); i++ {
		d := math.Abs(float64(a.Diag[i]))
		if d == 0 || math.IsNaN(d) || d < tol {
			return fmt.Errorf("%w: row %d, pivot %v", ErrSingular, i, a.Diag[i])
		}
	}
	return nil
}

// Factors returns the factored matrix.
func (m *ILU[I, T]) Factors() *crs.Matrix[I, T] { return m.lu }

// Solve stores M⁻¹b into x. x and b may be the same slice.
func (m *ILU[I, T]) Solve(x, b []T) {
	if m.part != nil {
		kernel.ILUSolveColored(m.pool, m.lu, m.part, m.inv, x, b)
		return
	}
	kernel.ILUSolve(m.lu, m.inv, x, b)
}

// PSolve implements the Preconditioner interface.
func (m *ILU[I, T]) PSolve(dst, rhs []float64) error {
	if x, ok := any(dst).([]T); ok {
		m.Solve(x, any(rhs).([]T))
		return nil
	}
	m.x = convertTo(m.x, dst)
	m.b = convertTo(m.b, rhs)
	m.Solve(m.x, m.b)
	convertFrom(dst, m.x)
	return nil
}

// GaussSeidel is a preconditioner that applies a fixed number of
// Gauss-Seidel sweeps to A*x = b starting from x = 0.
type GaussSeidel[I crs.Index, T crs.Float] struct {
	pool   *lanes.Pool
	part   *crs.Partition[I]
	a      *crs.Matrix[I, T]
	sweeps int

	x, b, out []T
}

// NewGaussSeidel returns a Gauss-Seidel preconditioner for a. Halo values of
// x are zero during the sweeps. Without a partition the sweeps run on the
// calling goroutine and s.Pool is not used.
func NewGaussSeidel[I crs.Index, T crs.Float](a *crs.Matrix[I, T], s PrecondSettings[I]) *GaussSeidel[I, T] {
	sweeps := s.Sweeps
	if sweeps == 0 {
		sweeps = 1
	}
	if sweeps < 0 {
		panic("multicolor: negative sweep count")
	}
	return &GaussSeidel[I, T]{
		pool:   s.Pool,
		part:   checkPartition(s.Partition, a.Owned()),
		a:      a,
		sweeps: sweeps,
		x:      make([]T, a.Rows()),
	}
}

// Solve stores the result of the sweeps into x.
func (g *GaussSeidel[I, T]) Solve(x, b []T) {
	owned := g.a.Owned()
	if len(x) != owned || len(b) != owned {
		panic("multicolor: vector length mismatch")
	}
	for i := range g.x {
		g.x[i] = 0
	}
	for k := 0; k < g.sweeps; k++ {
		if g.part != nil {
			kernel.GaussSeidelColored(g.pool, g.a, g.part, g.x, b)
		} else {
			kernel.GaussSeidel(nil, g.a, g.x, b)
		}
	}
	copy(x, g.x[:owned])
}

// PSolve implements the Preconditioner interface.
func (g *GaussSeidel[I, T]) PSolve(dst, rhs []float64) error {
	if x, ok := any(dst).([]T); ok {
		g.Solve(x, any(rhs).([]T))
		return nil
	}
	g.b = convertTo(g.b, rhs)
	g.out = convertTo(g.out, dst)
	g.Solve(g.out, g.b)
	convertFrom(dst, g.out)
	return nil
}

func checkPartition[I crs.Index](part *crs.Partition[I], n int) *crs.Partition[I] {
	if part != nil && part.Len() != n {
		panic("multicolor: partition does not cover the owned rows")
	}
	return part
}

func convertTo[T crs.Float](dst []T, src []float64) []T {
	if cap(dst) < len(src) {
		dst = make([]T, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = T(v)
	}
	return dst
}

func convertFrom[T crs.Float](dst []float64, src []T) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}
