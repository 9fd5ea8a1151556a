// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triplet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCRS(t *testing.T) {
	m := New(4, 4)
	m.Append(1, 2, 3)
	m.Append(0, 0, 1)
	m.Append(1, 0, -1)
	m.Append(1, 1, 2)
	m.Append(1, 2, 0.5) // Summed with the first (1, 2).
	m.Append(0, 0, 1)   // Summed on the diagonal.
	m.Append(2, 3, 0)   // Explicit zero kept in the pattern.
	m.Append(3, 3, 7)
	require.Equal(t, 8, m.Len())

	a := ToCRS[int32, float64](m, 3)
	assert.Equal(t, 3, a.Owned())
	assert.Equal(t, 4, a.Rows())
	assert.Equal(t, []float64{2, 2, 0, 7}, a.Diag)
	assert.Equal(t, []int32{0, 0, 2, 3, 3}, a.RowPtr)
	assert.Equal(t, []int32{0, 2, 3}, a.ColInd)
	assert.Equal(t, []float64{-1, 3.5, 0}, a.OffDiag)
	assert.Equal(t, 2, a.Find(2, 3))
}

func TestMulVec(t *testing.T) {
	m := New(2, 3)
	m.Append(0, 0, 1)
	m.Append(0, 2, 2)
	m.Append(1, 1, 3)
	m.Append(0, 2, 1)
	dst := []float64{9, 9}
	m.MulVec(dst, []float64{1, 2, 3})
	assert.Equal(t, []float64{10, 6}, dst)

	assert.Panics(t, func() { m.MulVec(dst, []float64{1}) })
}

func TestAppendPanics(t *testing.T) {
	m := New(2, 2)
	assert.Panics(t, func() { m.Append(2, 0, 1) })
	assert.Panics(t, func() { m.Append(0, -1, 1) })
	assert.Panics(t, func() { ToCRS[int, float64](New(2, 3), 2) })
}
