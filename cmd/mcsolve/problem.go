// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/internal/coloring"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/internal/market"
	"github.com/vladimir-ch/multicolor/internal/triplet"
)

// problemFlags selects the system matrix: a Matrix Market file or a
// generated Poisson matrix.
type problemFlags struct {
	matrix string
	nx, ny int
}

func (p *problemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.matrix, "matrix", "", "Matrix Market file with the system matrix")
	fs.IntVar(&p.nx, "nx", 32, "grid width of the generated Poisson matrix")
	fs.IntVar(&p.ny, "ny", 32, "grid height of the generated Poisson matrix, 1 for the 1D matrix")
}

func (p *problemFlags) load() (*crs.Matrix[int32, float64], string, error) {
	var (
		t    *triplet.Matrix
		name string
	)
	switch {
	case p.matrix != "":
		m, err := market.ReadFile(p.matrix)
		if err != nil {
			return nil, "", err
		}
		if r, c := m.Dims(); r != c {
			return nil, "", fmt.Errorf("%s: matrix is %d×%d, not square", p.matrix, r, c)
		}
		t, name = m, p.matrix
	case p.nx < 1 || p.ny < 1:
		return nil, "", errors.New("grid dimensions must be positive")
	case p.ny == 1:
		t, name = gen.Poisson1D(p.nx), fmt.Sprintf("poisson1d-%d", p.nx)
	default:
		t, name = gen.Poisson2D(p.nx, p.ny), fmt.Sprintf("poisson2d-%dx%d", p.nx, p.ny)
	}
	n, _ := t.Dims()
	return triplet.ToCRS[int32, float64](t, n), name, nil
}

func partition(a *crs.Matrix[int32, float64], kind string) *crs.Partition[int32] {
	switch kind {
	case "levels":
		return coloring.Levels(a)
	case "greedy":
		return coloring.Greedy(a)
	}
	return nil
}

// writeVector writes x to the named file, one value per line.
func writeVector(name string, x []float64) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%s: %w", name, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	var buf []byte
	for _, v := range x {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return w.Flush()
}
