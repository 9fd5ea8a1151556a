// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/lanes"
)

// FactorDILU overwrites the diagonal of A with the DILU diagonal
//  d_i = a_ii - Σ_{j<i} a_ij a_ji / d_j,
// visiting the owned rows in ascending order. The off-diagonal
// coefficients are not modified. Columns within a row must be ascending;
// halo columns do not contribute.
//
// Together with the strictly lower and upper parts of A the result defines
// the preconditioner M = (D+L) D⁻¹ (D+U), applied by ILUSolve with the
// reciprocal of the new diagonal.
func FactorDILU[I crs.Index, T crs.Float](a *crs.Matrix[I, T]) {
	for i := 0; i < a.Owned(); i++ {
		diluRow(a, i)
	}
}

// FactorDILUColored is FactorDILU processing the colors of part in
// ascending order. The result equals FactorDILU if every dependency
// between rows j < i has the color of j before the color of i.
func FactorDILUColored[I crs.Index, T crs.Float](p *lanes.Pool, a *crs.Matrix[I, T], part *crs.Partition[I]) {
	p.Sweep(part.NumColors(), lanes.Ascending, part.Span, func(start, end, lane, numLanes int) {
		rows := part.SortAddr[start:end]
		for idx := lane; idx < len(rows); idx += numLanes {
			diluRow(a, int(rows[idx]))
		}
	})
}

func diluRow[I crs.Index, T crs.Float](a *crs.Matrix[I, T], i int) {
	d := a.Diag[i]
	for k := int(a.RowPtr[i]); k < int(a.RowPtr[i+1]); k++ {
		j := int(a.ColInd[k])
		if j > i {
			break
		}
		if kt := a.Find(j, i); kt >= 0 {
			d -= a.OffDiag[k] * a.OffDiag[kt] / a.Diag[j]
		}
	}
	a.Diag[i] = d
}

// FactorILU0 overwrites A with its incomplete LU factorization with zero
// fill-in (Y. Saad, Iterative Methods for Sparse Linear Systems, 2nd ed.,
// Algorithm 10.4). The strictly lower off-diagonal entries become the
// multipliers of the unit lower triangular factor L; the diagonal and the
// strictly upper entries become U.
//
// Columns within a row must be ascending. Halo columns are neither used
// nor updated.
func FactorILU0[I crs.Index, T crs.Float](a *crs.Matrix[I, T]) {
	for i := 1; i < a.Owned(); i++ {
		ilu0Row(a, i)
	}
}

// FactorILU0Colored is FactorILU0 processing the colors of part in
// ascending order. The result equals FactorILU0 if every dependency
// between rows j < i has the color of j before the color of i.
func FactorILU0Colored[I crs.Index, T crs.Float](p *lanes.Pool, a *crs.Matrix[I, T], part *crs.Partition[I]) {
	p.Sweep(part.NumColors(), lanes.Ascending, part.Span, func(start, end, lane, numLanes int) {
		rows := part.SortAddr[start:end]
		for idx := lane; idx < len(rows); idx += numLanes {
			ilu0Row(a, int(rows[idx]))
		}
	})
}

func ilu0Row[I crs.Index, T crs.Float](a *crs.Matrix[I, T], i int) {
	lo, hi := int(a.RowPtr[i]), int(a.RowPtr[i+1])
	owned := a.Owned()
	for k := lo; k < hi; k++ {
		col := int(a.ColInd[k])
		if col > i {
			break
		}
		a.OffDiag[k] /= a.Diag[col]
		m := a.OffDiag[k]
		// a_ij -= a_ik * a_kj for the later entries of row i.
		for kj := k + 1; kj < hi; kj++ {
			j := int(a.ColInd[kj])
			if j >= owned {
				break
			}
			if kk := a.Find(col, j); kk >= 0 {
				a.OffDiag[kj] -= m * a.OffDiag[kk]
			}
		}
		if kk := a.Find(col, i); kk >= 0 {
			a.Diag[i] -= m * a.OffDiag[kk]
		}
	}
}

// Reciprocal stores 1/d_i for the owned rows of A into dst. The result is
// the explicit inverse diagonal used by ILUSolve for DILU factors.
func Reciprocal[I crs.Index, T crs.Float](p *lanes.Pool, dst []T, a *crs.Matrix[I, T]) {
	checkVec(a.Owned(), len(dst), "dst")
	p.Run(func(lane, numLanes int) {
		for i := lane; i < a.Owned(); i += numLanes {
			dst[i] = 1 / a.Diag[i]
		}
	})
}
