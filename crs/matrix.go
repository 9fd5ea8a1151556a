// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crs provides the compressed row storage matrix and the coloring
// partition consumed by the kernels in package kernel.
//
// A Matrix keeps its diagonal apart from the off-diagonal nonzeros. Rows
// [0, Owned()) are owned by the local compute unit; rows [Owned(), Rows())
// are halo rows whose values come from a neighboring partition. Halo rows
// never appear as output rows of a kernel, but columns of owned rows may
// reference them.
package crs

import "fmt"

// Index is the set of integer types usable for row pointers and column
// indices. Narrow types shrink the memory footprint of large matrices.
type Index interface {
	~uint16 | ~uint32 | ~int32 | ~int
}

// Float is the set of native storage precisions for coefficients and
// vectors.
type Float interface {
	~float32 | ~float64
}

// Matrix is a sparse matrix in compressed row storage with a separately
// stored diagonal.
//
// The shape (RowPtr, ColInd, owned and halo row counts) is immutable. The
// coefficients Diag and OffDiag are overwritten in place by the
// factorization kernels.
type Matrix[I Index, T Float] struct {
	// Diag holds the diagonal coefficient of every row, halo rows
	// included.
	Diag []T
	// OffDiag holds the off-diagonal nonzeros of all rows, row after
	// row.
	OffDiag []T
	// RowPtr has Rows()+1 non-decreasing offsets into OffDiag and
	// ColInd. Row i occupies [RowPtr[i], RowPtr[i+1]).
	RowPtr []I
	// ColInd holds the column of each off-diagonal nonzero. The
	// factorization and triangular solve kernels require columns in
	// ascending order within a row.
	ColInd []I

	owned int
}

// New returns a matrix with owned rows [0, owned) and halo rows
// [owned, len(diag)). The slices are used directly, not copied.
//
// New panics if the shapes are inconsistent. It does not check that
// columns are sorted or that no column equals its own row.
func New[I Index, T Float](owned int, diag, offDiag []T, rowPtr, colInd []I) *Matrix[I, T] {
	n := len(diag)
	switch {
	case owned < 0 || n < owned:
		panic("crs: owned row count out of range")
	case len(rowPtr) != n+1:
		panic("crs: row pointer length mismatch")
	case len(offDiag) != len(colInd):
		panic("crs: off-diagonal and column index length mismatch")
	case int(rowPtr[0]) != 0 || int(rowPtr[n]) != len(colInd):
		panic("crs: row pointer does not span the nonzeros")
	}
	for i := 0; i < n; i++ {
		if rowPtr[i+1] < rowPtr[i] {
			panic(fmt.Sprintf("crs: row pointer decreases at row %d", i))
		}
	}
	for _, j := range colInd {
		if int(j) < 0 || n <= int(j) {
			panic("crs: column index out of range")
		}
	}
	return &Matrix[I, T]{
		Diag:    diag,
		OffDiag: offDiag,
		RowPtr:  rowPtr,
		ColInd:  colInd,
		owned:   owned,
	}
}

// Rows returns the number of rows including halo rows.
func (m *Matrix[I, T]) Rows() int { return len(m.Diag) }

// Owned returns the number of owned rows.
func (m *Matrix[I, T]) Owned() int { return m.owned }

// Dims returns the dimensions of the matrix. Halo rows count as rows, so
// the matrix is square.
func (m *Matrix[I, T]) Dims() (r, c int) { return len(m.Diag), len(m.Diag) }

// NNZ returns the number of stored off-diagonal nonzeros.
func (m *Matrix[I, T]) NNZ() int { return len(m.ColInd) }

// RowLen returns the number of off-diagonal nonzeros in row i.
func (m *Matrix[I, T]) RowLen(i int) int {
	return int(m.RowPtr[i+1]) - int(m.RowPtr[i])
}

// Find returns the position in OffDiag of the first nonzero in row i with
// column j, or -1 if row i holds no such entry. The search is a linear
// scan of the row.
func (m *Matrix[I, T]) Find(i, j int) int {
	for k := int(m.RowPtr[i]); k < int(m.RowPtr[i+1]); k++ {
		if int(m.ColInd[k]) == j {
			return k
		}
	}
	return -1
}

// At returns the coefficient at (i, j), or zero if it is
// not stored.
func (m *Matrix[I, T]) At(i, j int) T {
	if i == j {
		return m.Diag[i]
	}
	if k := m.Find(i, j); k >= 0 {
		return m.OffDiag[k]
	}
	return 0
}

// Clone returns a deep copy of the coefficients. The shape slices are
// shared, since they are never modified.
func (m *Matrix[I, T]) Clone() *Matrix[I, T] {
	return &Matrix[I, T]{
		Diag:    append([]T(nil), m.Diag...),
		OffDiag: append([]T(nil), m.OffDiag...),
		RowPtr:  m.RowPtr,
		ColInd:  m.ColInd,
		owned:   m.owned,
	}
}

// CopyCoeffs copies the coefficients of src into m. Both matrices must
// have the same shape.
func (m *Matrix[I, T]) CopyCoeffs(src *Matrix[I, T]) {
	if len(m.Diag) != len(src.Diag) || len(m.OffDiag) != len(src.OffDiag) {
		panic("crs: shape mismatch")
	}
	copy(m.Diag, src.Diag)
	copy(m.OffDiag, src.OffDiag)
}
