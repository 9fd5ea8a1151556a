// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the sparse kernels on crs matrices: the
// matrix-vector product, the residual, Gauss-Seidel relaxation, DILU and
// ILU(0) factorization and the ILU triangular solve.
//
// Every kernel has a lane-level form that processes the rows belonging to
// one lane of numLanes, and a form that drives the lane-level form through a
// *lanes.Pool. Kernels that update rows in place come in a sequential
// variant and a colored variant that processes the colors of a
// crs.Partition one at a time with a barrier in between.
//
// The kernels do not validate their input beyond vector lengths. A
// malformed matrix or an invalid coloring gives undefined results, and a
// zero pivot propagates as Inf or NaN.
package kernel

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/lanes"
)

// SpMV computes dst = A*x for the owned rows of A. x must hold a value for
// every row of A, halo rows included.
func SpMV[I crs.Index, T crs.Float](p *lanes.Pool, dst []T, a *crs.Matrix[I, T], x []T) {
	checkVec(a.Rows(), len(x), "x")
	checkVec(a.Owned(), len(dst), "dst")
	p.Run(func(lane, numLanes int) {
		SpMVLane(dst, a, x, lane, numLanes)
	})
}

// SpMVLane computes rows lane, lane+numLanes, ... of A*x.
func SpMVLane[I crs.Index, T crs.Float](dst []T, a *crs.Matrix[I, T], x []T, lane, numLanes int) {
	for row := lane; row < a.Owned(); row += numLanes {
		sum := float64(a.Diag[row]) * float64(x[row])
		for k := int(a.RowPtr[row]); k < int(a.RowPtr[row+1]); k++ {
			sum += float64(a.OffDiag[k]) * float64(x[a.ColInd[k]])
		}
		dst[row] = T(sum)
	}
}

// Residual computes dst = b - A*x for the owned rows of A. The sum is
// accumulated in float64 and rounded to T once.
func Residual[I crs.Index, T crs.Float](p *lanes.Pool, dst []T, a *crs.Matrix[I, T], x, b []T) {
	checkVec(a.Rows(), len(x), "x")
	checkVec(a.Owned(), len(b), "b")
	checkVec(a.Owned(), len(dst), "dst")
	p.Run(func(lane, numLanes int) {
		ResidualLane(dst, a, x, b, lane, numLanes)
	})
}

// ResidualLane computes rows lane, lane+numLanes, ... of b - A*x.
func ResidualLane[I crs.Index, T crs.Float](dst []T, a *crs.Matrix[I, T], x, b []T, lane, numLanes int) {
	for row := lane; row < a.Owned(); row += numLanes {
		sum := float64(a.Diag[row]) * float64(x[row])
		for k := int(a.RowPtr[row]); k < int(a.RowPtr[row+1]); k++ {
			sum += float64(a.OffDiag[k]) * float64(x[a.ColInd[k]])
		}
		dst[row] = T(float64(b[row]) - sum)
	}
}

func checkVec(want, got int, name string) {
	if got < want {
		panic("kernel: " + name + " too short")
	}
}
