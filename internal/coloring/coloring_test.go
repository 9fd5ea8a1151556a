// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coloring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/triplet"
)

func matrices(rnd *rand.Rand) map[string]*crs.Matrix[int32, float64] {
	m := map[string]*crs.Matrix[int32, float64]{
		"single":    triplet.ToCRS[int32, float64](gen.Poisson1D(1), 1),
		"poisson1d": triplet.ToCRS[int32, float64](gen.Poisson1D(20), 20),
		"poisson2d": triplet.ToCRS[int32, float64](gen.Poisson2D(6, 5), 30),
		"random":    triplet.ToCRS[int32, float64](gen.DiagDominant(60, 0.1, 0.5, rnd), 60),
		"dense":     triplet.ToCRS[int32, float64](gen.DiagDominant(8, 1, 0.5, rnd), 8),
	}
	// Poisson1D(12) with the last two rows as halo.
	m["halo"] = triplet.ToCRS[int32, float64](gen.Poisson1D(12), 10)
	return m
}

func TestGreedy(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for name, a := range matrices(rnd) {
		part := Greedy(a)
		require.Equal(t, a.Owned(), part.Len(), name)
		assert.NoError(t, Check(a, part, false), name)
		for c := 0; c < part.NumColors(); c++ {
			assert.NotEmpty(t, part.Color(c), "%s: color %d is empty", name, c)
		}
	}
}

func TestGreedyComplete(t *testing.T) {
	dense := triplet.ToCRS[int32, float64](gen.DiagDominant(8, 1, 0.5, rand.New(rand.NewSource(1))), 8)
	assert.Equal(t, 8, Greedy(dense).NumColors())
}

func TestLevels(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for name, a := range matrices(rnd) {
		part := Levels(a)
		require.Equal(t, a.Owned(), part.Len(), name)
		assert.NoError(t, Check(a, part, true), name)
	}
}

func TestLevelsPoisson2D(t *testing.T) {
	// Levels of the 5-point stencil are the anti-diagonals x+y of the grid.
	a := triplet.ToCRS[int32, float64](gen.Poisson2D(3, 2), 6)
	part := Levels(a)
	require.Equal(t, 4, part.NumColors())
	assert.Equal(t, []int32{0}, part.Color(0))
	assert.Equal(t, []int32{1, 3}, part.Color(1))
	assert.Equal(t, []int32{2, 4}, part.Color(2))
	assert.Equal(t, []int32{5}, part.Color(3))
}

func TestSequential(t *testing.T) {
	part := Sequential[uint16](4)
	assert.Equal(t, []uint16{0, 1, 2, 3}, part.SortAddr)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4}, part.StartAddr)

	a := triplet.ToCRS[uint16, float32](gen.Poisson1D(4), 4)
	assert.NoError(t, Check(a, part, true))
}

func TestCheck(t *testing.T) {
	a := triplet.ToCRS[int32, float64](gen.Poisson1D(4), 4)

	oneColor := crs.NewPartition([]int32{0, 1, 2, 3}, []int32{0, 4})
	assert.ErrorIs(t, Check(a, oneColor, false), ErrAdjacent)

	// Red-black is a valid coloring but row 1 depends on row 0 and row 2
	// on row 1 across the color order.
	redBlack := crs.NewPartition([]int32{0, 2, 1, 3}, []int32{0, 2, 4})
	assert.NoError(t, Check(a, redBlack, false))
	assert.ErrorIs(t, Check(a, redBlack, true), ErrOrder)

	short := crs.NewPartition([]int32{0, 1}, []int32{0, 1, 2})
	assert.Error(t, Check(a, short, false))
}
