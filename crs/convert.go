// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crs

import (
	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

// FromDense returns the CRS form of the square matrix a with every row
// owned. Zero off-diagonal entries are not stored; the diagonal is stored
// even when zero. Columns within a row are ascending.
func FromDense[I Index, T Float](a mat.Matrix) *Matrix[I, T] {
	r, c := a.Dims()
	if r != c {
		panic("crs: matrix not square")
	}
	diag := make([]T, r)
	rowPtr := make([]I, r+1)
	var (
		offDiag []T
		colInd  []I
	)
	for i := 0; i < r; i++ {
		diag[i] = T(a.At(i, i))
		for j := 0; j < c; j++ {
			if j == i {
				continue
			}
			if v := a.At(i, j); v != 0 {
				offDiag = append(offDiag, T(v))
				colInd = append(colInd, I(j))
			}
		}
		rowPtr[i+1] = I(len(colInd))
	}
	return New(r, diag, offDiag, rowPtr, colInd)
}

// ToDense returns the owned rows of m as a dense matrix. Columns that
// reference halo rows are kept, so the result is Owned()×Rows().
func ToDense[I Index, T Float](m *Matrix[I, T]) *mat.Dense {
	n := m.Rows()
	d := mat.NewDense(max(m.owned, 1), max(n, 1), nil)
	for i := 0; i < m.owned; i++ {
		d.Set(i, i, float64(m.Diag[i]))
		for k := int(m.RowPtr[i]); k < int(m.RowPtr[i+1]); k++ {
			d.Set(i, int(m.ColInd[k]), float64(m.OffDiag[k]))
		}
	}
	return d
}

// Convert returns a copy of m with index type I2 and value type T2.
// Narrowing conversions round coefficients to nearest; index values must
// fit into I2.
func Convert[I2 Index, T2 Float, I Index, T Float](m *Matrix[I, T]) *Matrix[I2, T2] {
	diag := make([]T2, len(m.Diag))
	for i, v := range m.Diag {
		diag[i] = T2(v)
	}
	offDiag := make([]T2, len(m.OffDiag))
	for k, v := range m.OffDiag {
		offDiag[k] = T2(v)
	}
	rowPtr := make([]I2, len(m.RowPtr))
	for i, p := range m.RowPtr {
		rowPtr[i] = I2(p)
		if int(rowPtr[i]) != int(p) {
			panic("crs: row pointer overflows index type")
		}
	}
	colInd := make([]I2, len(m.ColInd))
	for k, j := range m.ColInd {
		colInd[k] = I2(j)
	}
	return New(m.owned, diag, offDiag, rowPtr, colInd)
}

// RoundHalf rounds every coefficient of m to the nearest IEEE binary16
// value. It emulates half precision coefficient storage while keeping the
// arithmetic of the kernels unchanged.
func RoundHalf[I Index, T Float](m *Matrix[I, T]) {
	for i, v := range m.Diag {
		m.Diag[i] = T(float16.Fromfloat32(float32(v)).Float32())
	}
	for k, v := range m.OffDiag {
		m.OffDiag[k] = T(float16.Fromfloat32(float32(v)).Float32())
	}
}
