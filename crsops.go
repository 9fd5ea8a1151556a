// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multicolor

import (
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/kernel"
	"github.com/vladimir-ch/multicolor/lanes"
)

// CRSOps returns the MatrixOps of the owned block of a. Vectors have length
// a.Owned(). If a has halo rows, x is extended by the values in halo before
// the multiplication, so halo must have length a.Rows()-a.Owned(); a nil
// halo means zero halo values.
//
// The returned MatVec is not safe for concurrent use.
func CRSOps[I crs.Index](p *lanes.Pool, a *crs.Matrix[I, float64], halo []float64) MatrixOps {
	owned, rows := a.Owned(), a.Rows()
	if halo != nil && len(halo) != rows-owned {
		panic("multicolor: halo length mismatch")
	}
	if rows == owned {
		return MatrixOps{
			MatVec: func(dst, x []float64) {
				kernel.SpMV(p, dst, a, x)
			},
		}
	}
	ext := make([]float64, rows)
	copy(ext[owned:], halo)
	return MatrixOps{
		MatVec: func(dst, x []float64) {
			copy(ext, x[:owned])
			kernel.SpMV(p, dst, a, ext)
		},
	}
}
