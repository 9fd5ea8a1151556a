// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/dw"
	"github.com/vladimir-ch/multicolor/lanes"
)

// ResidualExtended computes dst = b - A*x where x is held in double-word
// precision and A and b in float32. Every product and every subtraction is
// carried out in double-word arithmetic, so the result is accurate to
// float32 precision relative to the residual itself rather than to |A||x|.
//
// mode selects the addition algorithm used for the accumulation.
func ResidualExtended[I crs.Index](p *lanes.Pool, dst []float32, a *crs.Matrix[I, float32], x []dw.Float, b []float32, mode dw.Mode) {
	checkVec(a.Rows(), len(x), "x")
	checkVec(a.Owned(), len(b), "b")
	checkVec(a.Owned(), len(dst), "dst")
	p.Run(func(lane, numLanes int) {
		ResidualExtendedLane(dst, a, x, b, mode, lane, numLanes)
	})
}

// ResidualExtendedLane computes rows lane, lane+numLanes, ... of the
// extended precision residual.
func ResidualExtendedLane[I crs.Index](dst []float32, a *crs.Matrix[I, float32], x []dw.Float, b []float32, mode dw.Mode, lane, numLanes int) {
	for row := lane; row < a.Owned(); row += numLanes {
		acc := dw.FromFloat32(b[row])
		acc = dw.AddMode(acc, dw.MulFloat(x[row], -a.Diag[row]), mode)
		for k := int(a.RowPtr[row]); k < int(a.RowPtr[row+1]); k++ {
			acc = dw.AddMode(acc, dw.MulFloat(x[a.ColInd[k]], -a.OffDiag[k]), mode)
		}
		dst[row] = acc.Float32()
	}
}
