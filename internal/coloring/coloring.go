// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coloring builds crs.Partition values from the sparsity pattern of
// a matrix. Two owned rows are adjacent if either one references the other.
// Halo columns are ignored.
package coloring

import (
	"errors"
	"fmt"

	gcoloring "gonum.org/v1/gonum/graph/coloring"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vladimir-ch/multicolor/crs"
)

// ErrAdjacent is returned by Check when two adjacent rows share a color.
var ErrAdjacent = errors.New("coloring: adjacent rows share a color")

// ErrOrder is returned by Check when a dependency points from a later
// color to an earlier one.
var ErrOrder = errors.New("coloring: dependency against color order")

// Greedy returns a partition computed by the Welsh-Powell heuristic. Rows of
// one color are independent, but colors are not ordered along the row
// index, so the partition suits Gauss-Seidel and not the factorization
// kernels.
func Greedy[I crs.Index, T crs.Float](a *crs.Matrix[I, T]) *crs.Partition[I] {
	g := simple.NewUndirectedGraph()
	for i := 0; i < a.Owned(); i++ {
		g.AddNode(simple.Node(i))
	}
	eachEdge(a, func(i, j int) {
		g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
	})
	_, colors := gcoloring.WelshPowell(g)
	// Renumber the colors densely in order of first use.
	c := make([]int, a.Owned())
	dense := make(map[int]int)
	for i := range c {
		color := colors[int64(i)]
		if _, ok := dense[color]; !ok {
			dense[color] = len(dense)
		}
		c[i] = dense[color]
	}
	return fromColors[I](c, len(dense))
}

// Levels returns a level-scheduling partition: the color of row i is one
// more than the largest color of its adjacent rows j < i. Rows of one color
// are independent and every dependency points from an earlier color to a
// later one, so the partition suits every colored kernel.
func Levels[I crs.Index, T crs.Float](a *crs.Matrix[I, T]) *crs.Partition[I] {
	n := a.Owned()
	lower := make([][]int, n)
	eachEdge(a, func(i, j int) {
		if j < i {
			i, j = j, i
		}
		lower[j] = append(lower[j], i)
	})
	level := make([]int, n)
	k := 0
	for i := 0; i < n; i++ {
		for _, j := range lower[i] {
			level[i] = max(level[i], level[j]+1)
		}
		k = max(k, level[i]+1)
	}
	return fromColors[I](level, k)
}

// Sequential returns the partition with one color per row in ascending row
// order. Colored kernels run with it in exactly the row-sequential order.
func Sequential[I crs.Index](n int) *crs.Partition[I] {
	c := make([]int, n)
	for i := range c {
		c[i] = i
	}
	return fromColors[I](c, n)
}

// Check returns ErrAdjacent if two adjacent rows share a color. If ordered
// is true it also returns ErrOrder if for adjacent rows j < i the color of
// i does not come after the color of j.
func Check[I crs.Index, T crs.Float](a *crs.Matrix[I, T], part *crs.Partition[I], ordered bool) error {
	if part.Len() != a.Owned() {
		return fmt.Errorf("coloring: partition covers %d rows, matrix owns %d", part.Len(), a.Owned())
	}
	color := make([]int, a.Owned())
	for c := 0; c < part.NumColors(); c++ {
		for _, i := range part.Color(c) {
			color[i] = c
		}
	}
	var err error
	eachEdge(a, func(i, j int) {
		if err != nil {
			return
		}
		switch {
		case color[i] == color[j]:
			err = fmt.Errorf("%w: rows %d and %d", ErrAdjacent, i, j)
		case ordered && (j < i) != (color[j] < color[i]):
			err = fmt.Errorf("%w: rows %d and %d", ErrOrder, i, j)
		}
	})
	return err
}

// eachEdge calls fn(i, j) for every stored entry (i, j) with both rows
// owned and i != j.
func eachEdge[I crs.Index, T crs.Float](a *crs.Matrix[I, T], fn func(i, j int)) {
	for i := 0; i < a.Owned(); i++ {
		for k := int(a.RowPtr[i]); k < int(a.RowPtr[i+1]); k++ {
			j := int(a.ColInd[k])
			if j < a.Owned() && j != i {
				fn(i, j)
			}
		}
	}
}

// fromColors groups rows by color with a counting sort, keeping rows of
// one color in ascending order.
func fromColors[I crs.Index](color []int, k int) *crs.Partition[I] {
	start := make([]I, k+1)
	for _, c := range color {
		start[c+1]++
	}
	for c := 0; c < k; c++ {
		start[c+1] += start[c]
	}
	next := make([]int, k)
	for c := range next {
		next[c] = int(start[c])
	}
	sortAddr := make([]I, len(color))
	for i, c := range color {
		sortAddr[next[c]] = I(i)
		next[c]++
	}
	return crs.NewPartition(sortAddr, start)
}
