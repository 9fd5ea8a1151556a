// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimir-ch/multicolor/internal/triplet"
)

func TestPoisson(t *testing.T) {
	a := triplet.ToCRS[int32, float64](Poisson1D(5), 5)
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, a.Diag)
	assert.Equal(t, 8, a.NNZ())

	b := triplet.ToCRS[int32, float64](Poisson2D(4, 3), 12)
	assert.Equal(t, 4.0, b.At(5, 5))
	assert.Equal(t, -1.0, b.At(5, 1))
	assert.Equal(t, -1.0, b.At(5, 9))
	assert.Equal(t, 0.0, b.At(3, 4)) // No coupling across the grid edge.
	assert.Equal(t, 2*(3*3+4*2), b.NNZ())
}

func TestDiagDominant(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const delta = 0.3
	a := triplet.ToCRS[int32, float64](DiagDominant(40, 0.2, delta, rnd), 40)
	for i := 0; i < a.Owned(); i++ {
		d := a.Diag[i]
		assert.True(t, 1 <= d && d < 2, "row %d: diagonal %v", i, d)
		var sum float64
		for k := int(a.RowPtr[i]); k < int(a.RowPtr[i+1]); k++ {
			sum += math.Abs(a.OffDiag[k])
			j := int(a.ColInd[k])
			assert.GreaterOrEqual(t, a.Find(j, i), 0, "pattern not symmetric at (%d,%d)", i, j)
		}
		assert.LessOrEqual(t, sum, delta*d*(1+1e-12), "row %d", i)
	}
}
