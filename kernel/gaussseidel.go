// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/lanes"
)

// GaussSeidel performs one forward Gauss-Seidel sweep on A*x = b, updating
// x in place.
//
// Each lane relaxes rows lane, lane+numLanes, ... in increasing order. With
// a single lane this is the exact row-sequential sweep. With more lanes,
// rows of other lanes may be read before or after their update in the same
// sweep, which gives a hybrid of Gauss-Seidel and Jacobi ordering that is
// neither deterministic nor race free. Use GaussSeidelColored for a
// parallel sweep with a defined order.
func GaussSeidel[I crs.Index, T crs.Float](p *lanes.Pool, a *crs.Matrix[I, T], x, b []T) {
	checkVec(a.Rows(), len(x), "x")
	checkVec(a.Owned(), len(b), "b")
	p.Run(func(lane, numLanes int) {
		GaussSeidelLane(a, x, b, lane, numLanes)
	})
}

// GaussSeidelLane relaxes rows lane, lane+numLanes, ... of A*x = b.
func GaussSeidelLane[I crs.Index, T crs.Float](a *crs.Matrix[I, T], x, b []T, lane, numLanes int) {
	for row := lane; row < a.Owned(); row += numLanes {
		relax(a, x, b, row)
	}
}

// GaussSeidelColored performs one multicolor Gauss-Seidel sweep on
// A*x = b. The colors of part are relaxed in ascending order; rows of one
// color are split across the lanes.
func GaussSeidelColored[I crs.Index, T crs.Float](p *lanes.Pool, a *crs.Matrix[I, T], part *crs.Partition[I], x, b []T) {
	checkVec(a.Rows(), len(x), "x")
	checkVec(a.Owned(), len(b), "b")
	p.Sweep(part.NumColors(), lanes.Ascending, part.Span, func(start, end, lane, numLanes int) {
		GaussSeidelRowsLane(a, part.SortAddr[start:end], x, b, lane, numLanes)
	})
}

// GaussSeidelRowsLane relaxes rows[lane], rows[lane+numLanes], ... of
// A*x = b. The rows must be mutually independent.
func GaussSeidelRowsLane[I crs.Index, T crs.Float](a *crs.Matrix[I, T], rows []I, x, b []T, lane, numLanes int) {
	for idx := lane; idx < len(rows); idx += numLanes {
		relax(a, x, b, int(rows[idx]))
	}
}

// relax sets x[row] so that row of A*x = b holds for the current values of
// the other entries of x.
func relax[I crs.Index, T crs.Float](a *crs.Matrix[I, T], x, b []T, row int) {
	sum := float64(b[row])
	for k := int(a.RowPtr[row]); k < int(a.RowPtr[row+1]); k++ {
		sum -= float64(a.OffDiag[k]) * float64(x[a.ColInd[k]])
	}
	x[row] = T(sum / float64(a.Diag[row]))
}
