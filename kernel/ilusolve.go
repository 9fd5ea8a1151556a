// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/lanes"
)

// ILUSolve solves L*U*x = b for the owned rows, where A holds factors
// produced by FactorILU0 or FactorDILU.
//
// If invDiag is nil, A holds ILU(0) factors: L is unit lower triangular
// and the diagonal of U is stored in A.Diag. Otherwise A holds DILU
// factors and invDiag the reciprocal DILU diagonal from Reciprocal, and
// the solve applies M = (D+L) D⁻¹ (D+U).
//
// Halo columns are ignored. x and b may be the same slice.
func ILUSolve[I crs.Index, T crs.Float](a *crs.Matrix[I, T], invDiag []T, x, b []T) {
	checkSolve(a, invDiag, x, b)
	for i := 0; i < a.Owned(); i++ {
		lowerRow(a, invDiag, x, b, i)
	}
	for i := a.Owned() - 1; i >= 0; i-- {
		upperRow(a, invDiag, x, i)
	}
}

// ILUSolveColored is ILUSolve with the lower sweep processing the colors of
// part in ascending order and the upper sweep in descending order. The
// result equals ILUSolve if every dependency between rows j < i has the
// color of j before the color of i.
func ILUSolveColored[I crs.Index, T crs.Float](p *lanes.Pool, a *crs.Matrix[I, T], part *crs.Partition[I], invDiag []T, x, b []T) {
	checkSolve(a, invDiag, x, b)
	p.Sweep(part.NumColors(), lanes.Ascending, part.Span, func(start, end, lane, numLanes int) {
		rows := part.SortAddr[start:end]
		for idx := lane; idx < len(rows); idx += numLanes {
			lowerRow(a, invDiag, x, b, int(rows[idx]))
		}
	})
	p.Sweep(part.NumColors(), lanes.Descending, part.Span, func(start, end, lane, numLanes int) {
		rows := part.SortAddr[start:end]
		for idx := lane; idx < len(rows); idx += numLanes {
			upperRow(a, invDiag, x, int(rows[idx]))
		}
	})
}

func checkSolve[I crs.Index, T crs.Float](a *crs.Matrix[I, T], invDiag, x, b []T) {
	checkVec(a.Owned(), len(x), "x")
	checkVec(a.Owned(), len(b), "b")
	if invDiag != nil {
		checkVec(a.Owned(), len(invDiag), "invDiag")
	}
}

// lowerRow computes row i of the forward substitution with L.
func lowerRow[I crs.Index, T crs.Float](a *crs.Matrix[I, T], invDiag, x, b []T, i int) {
	sum := float64(b[i])
	for k := int(a.RowPtr[i]); k < int(a.RowPtr[i+1]); k++ {
		j := int(a.ColInd[k])
		if j > i {
			break
		}
		sum -= float64(a.OffDiag[k]) * float64(x[j])
	}
	if invDiag != nil {
		sum *= float64(invDiag[i])
	}
	x[i] = T(sum)
}

// upperRow computes row i of the backward substitution with U, scanning
// the row from its last column down to the diagonal.
func upperRow[I crs.Index, T crs.Float](a *crs.Matrix[I, T], invDiag, x []T, i int) {
	owned := a.Owned()
	var sum float64
	for k := int(a.RowPtr[i+1]) - 1; k >= int(a.RowPtr[i]); k-- {
		j := int(a.ColInd[k])
		if j < i {
			break
		}
		if j >= owned {
			continue
		}
		sum -= float64(a.OffDiag[k]) * float64(x[j])
	}
	if invDiag != nil {
		x[i] = T(float64(x[i]) + sum*float64(invDiag[i]))
		return
	}
	x[i] = T((float64(x[i]) + sum) / float64(a.Diag[i]))
}
