// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dok provides a dictionary-of-keys sparse matrix with random
// access, used as a straightforward reference for the CRS kernels.
package dok

import "github.com/vladimir-ch/multicolor/crs"

type DOK struct {
	Rows, Cols int

	data map[index]float64
}

type index struct {
	row, col int
}

func New(r, c int) *DOK {
	return &DOK{
		Rows: r,
		Cols: c,
		data: make(map[index]float64),
	}
}

// FromCRS returns the owned rows of a, including columns referencing halo
// rows. Every stored position of a is present in the result, even if its
// value is zero.
func FromCRS[I crs.Index, T crs.Float](a *crs.Matrix[I, T]) *DOK {
	m := New(a.Owned(), a.Rows())
	for i := 0; i < a.Owned(); i++ {
		m.SetAt(i, i, float64(a.Diag[i]))
		for k := int(a.RowPtr[i]); k < int(a.RowPtr[i+1]); k++ {
			m.SetAt(i, int(a.ColInd[k]), float64(a.OffDiag[k]))
		}
	}
	return m
}

func (m *DOK) check(i, j int) {
	if i < 0 || m.Rows <= i {
		panic("dok: row index out of range")
	}
	if j < 0 || m.Cols <= j {
		panic("dok: column index out of range")
	}
}

func (m *DOK) At(i, j int) float64 {
	m.check(i, j)
	return m.data[index{i, j}]
}

// Has reports whether position (i, j) is stored.
func (m *DOK) Has(i, j int) bool {
	m.check(i, j)
	_, ok := m.data[index{i, j}]
	return ok
}

func (m *DOK) SetAt(i, j int, v float64) {
	m.check(i, j)
	m.data[index{i, j}] = v
}

func (m *DOK) MulVec(dst, x []float64) {
	if m.Cols != len(x) {
		panic("dok: dimension mismatch")
	}
	if m.Rows != len(dst) {
		panic("dok: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for ij, aij := range m.data {
		dst[ij.row] += aij * x[ij.col]
	}
}

// ILU0 overwrites the owned square block of m with its ILU(0) factors,
// computed entry by entry in the i-k-j order on the stored pattern.
func (m *DOK) ILU0() {
	n := m.Rows
	for i := 1; i < n; i++ {
		for k := 0; k < i; k++ {
			if !m.Has(i, k) {
				continue
			}
			mult := m.At(i, k) / m.At(k, k)
			m.SetAt(i, k, mult)
			for j := k + 1; j < n; j++ {
				if m.Has(i, j) && m.Has(k, j) {
					m.SetAt(i, j, m.At(i, j)-mult*m.At(k, j))
				}
			}
		}
	}
}

// DILU returns the DILU diagonal of the owned square block of m.
func (m *DOK) DILU() []float64 {
	n := m.Rows
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
		for j := 0; j < i; j++ {
			if m.Has(i, j) && m.Has(j, i) {
				d[i] -= m.At(i, j) * m.At(j, i) / d[j]
			}
		}
	}
	return d
}
