// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crs

// Partition groups the owned rows of a matrix into colors. Rows of one color
// must not depend on each other, where row i depends on row j if j is a
// column of row i or i is a column of row j. The kernels rely on this
// without checking it.
//
// For the factorization and triangular solve kernels the colors must also
// follow the dependency direction: if j < i and the rows depend on each
// other, the color of j must come before the color of i.
type Partition[I Index] struct {
	// SortAddr is a permutation of the owned rows, grouped by color.
	SortAddr []I
	// StartAddr holds NumColors()+1 offsets into SortAddr. Color c
	// occupies SortAddr[StartAddr[c]:StartAddr[c+1]].
	StartAddr []I
}

// NewPartition returns a partition after checking that sortAddr is a
// permutation of [0, len(sortAddr)) and that startAddr spans it with
// non-decreasing offsets. Independence of the colors is not checked.
func NewPartition[I Index](sortAddr, startAddr []I) *Partition[I] {
	n := len(sortAddr)
	if len(startAddr) == 0 || int(startAddr[0]) != 0 || int(startAddr[len(startAddr)-1]) != n {
		panic("crs: color offsets do not span the rows")
	}
	for c := 1; c < len(startAddr); c++ {
		if startAddr[c] < startAddr[c-1] {
			panic("crs: color offsets decrease")
		}
	}
	seen := make([]bool, n)
	for _, i := range sortAddr {
		if int(i) < 0 || n <= int(i) || seen[i] {
			panic("crs: row order is not a permutation")
		}
		seen[i] = true
	}
	return &Partition[I]{SortAddr: sortAddr, StartAddr: startAddr}
}

// NumColors returns the number of colors.
func (p *Partition[I]) NumColors() int { return len(p.StartAddr) - 1 }

// Len returns the number of rows covered by the partition.
func (p *Partition[I]) Len() int { return len(p.SortAddr) }

// Span returns the range of SortAddr holding color c.
func (p *Partition[I]) Span(c int) (start, end int) {
	return int(p.StartAddr[c]), int(p.StartAddr[c+1])
}

// Color returns the rows of color c.
func (p *Partition[I]) Color(c int) []I {
	start, end := p.Span(c)
	return p.SortAddr[start:end]
}
