// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplet provides coordinate-list assembly of sparse matrices.
package triplet

import (
	"sort"

	"github.com/vladimir-ch/multicolor/crs"
)

type triplet struct {
	i, j int
	v    float64
}

// Matrix is a sparse matrix stored as a list of (i, j, v) entries.
// Repeated entries are summed.
type Matrix struct {
	r, c int
	data []triplet
}

func New(r, c int) *Matrix {
	return &Matrix{
		r: r,
		c: c,
	}
}

func (m *Matrix) Dims() (r, c int) {
	return m.r, m.c
}

// Len returns the number of appended entries.
func (m *Matrix) Len() int { return len(m.data) }

func (m *Matrix) Append(i, j int, v float64) {
	if i < 0 || m.r <= i {
		panic("triplet: row index out of range")
	}
	if j < 0 || m.c <= j {
		panic("triplet: column index out of range")
	}
	m.data = append(m.data, triplet{i, j, v})
}

// Do calls fn for every appended entry in the order of appending.
func (m *Matrix) Do(fn func(i, j int, v float64)) {
	for _, aij := range m.data {
		fn(aij.i, aij.j, aij.v)
	}
}

func (m *Matrix) MulVec(dst, x []float64) {
	if m.c != len(x) {
		panic("triplet: dimension mismatch")
	}
	if m.r != len(dst) {
		panic("triplet: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.i] += aij.v * x[aij.j]
	}
}

// ToCRS assembles m into a CRS matrix whose rows [owned, r) are halo rows.
// Duplicate entries are summed, columns are sorted within each row and
// the diagonal is stored apart. Explicit zeros are kept, so the sparsity
// pattern is exactly the set of appended positions.
func ToCRS[I crs.Index, T crs.Float](m *Matrix, owned int) *crs.Matrix[I, T] {
	if m.r != m.c {
		panic("triplet: matrix not square")
	}
	entries := make([]triplet, len(m.data))
	copy(entries, m.data)
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].i != entries[b].i {
			return entries[a].i < entries[b].i
		}
		return entries[a].j < entries[b].j
	})

	diag := make([]float64, m.r)
	rowPtr := make([]I, m.r+1)
	var (
		offDiag []float64
		colInd  []I
		last    = -1
	)
	for n, e := range entries {
		if e.i == e.j {
			diag[e.i] += e.v
			continue
		}
		if n > 0 && last >= 0 && entries[n-1].i == e.i && entries[n-1].j == e.j {
			offDiag[last] += e.v
			continue
		}
		offDiag = append(offDiag, e.v)
		colInd = append(colInd, I(e.j))
		last = len(offDiag) - 1
		rowPtr[e.i+1]++
	}
	for i := 0; i < m.r; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	return crs.New(owned, convert[T](diag), convert[T](offDiag), rowPtr, colInd)
}

func convert[T crs.Float](v []float64) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = T(x)
	}
	return out
}
