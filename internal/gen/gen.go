// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gen generates model sparse matrices.
package gen

import (
	"math/rand"

	"github.com/vladimir-ch/multicolor/internal/triplet"
)

// Poisson1D returns the n×n matrix tridiag(-1, 2, -1).
func Poisson1D(n int) *triplet.Matrix {
	m := triplet.New(n, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			m.Append(i, i-1, -1)
		}
		m.Append(i, i, 2)
		if i < n-1 {
			m.Append(i, i+1, -1)
		}
	}
	return m
}

// Poisson2D returns the 5-point Laplacian on an nx×ny grid with Dirichlet
// boundary, numbered row by row.
func Poisson2D(nx, ny int) *triplet.Matrix {
	n := nx * ny
	m := triplet.New(n, n)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*nx + x
			if y > 0 {
				m.Append(i, i-nx, -1)
			}
			if x > 0 {
				m.Append(i, i-1, -1)
			}
			m.Append(i, i, 4)
			if x < nx-1 {
				m.Append(i, i+1, -1)
			}
			if y < ny-1 {
				m.Append(i, i+nx, -1)
			}
		}
	}
	return m
}

// DiagDominant returns a random n×n matrix with a symmetric sparsity
// pattern in which each off-diagonal position is present with probability
// density. The values are unsymmetric. The diagonal is drawn from [1, 2)
// and the off-diagonal entries of each row are scaled so that their
// absolute sum is at most delta times the diagonal.
func DiagDominant(n int, density, delta float64, rnd *rand.Rand) *triplet.Matrix {
	type entry struct {
		j int
		v float64
	}
	rows := make([][]entry, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rnd.Float64() < density {
				rows[i] = append(rows[i], entry{j, rnd.Float64()*2 - 1})
				rows[j] = append(rows[j], entry{i, rnd.Float64()*2 - 1})
			}
		}
	}
	m := triplet.New(n, n)
	for i, row := range rows {
		d := 1 + rnd.Float64()
		var sum float64
		for _, e := range row {
			if e.v < 0 {
				sum -= e.v
			} else {
				sum += e.v
			}
		}
		scale := 1.0
		if sum > 0 {
			scale = delta * d / sum
		}
		m.Append(i, i, d)
		for _, e := range row {
			m.Append(i, e.j, e.v*scale)
		}
	}
	return m
}

// Ones returns a vector of n ones.
func Ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
