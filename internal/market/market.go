// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package market reads sparse matrices in the Matrix Market exchange format.
//
// Only the coordinate format is supported, with real, integer or pattern
// fields and general, symmetric or skew-symmetric storage.
package market

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vladimir-ch/multicolor/internal/triplet"
)

// ErrFormat is returned when the input is not a supported Matrix Market
// file.
var ErrFormat = errors.New("market: invalid format")

type header struct {
	pattern bool
	symm    string
}

// ReadFile reads the matrix stored in the named file.
func ReadFile(name string) (m *triplet.Matrix, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("market: failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("market: failed to close file: %w", cerr)
		}
	}()
	return Read(f)
}

// Read reads a matrix from r. Entries of a symmetric matrix are mirrored
// across the diagonal, and those of a skew-symmetric matrix are mirrored
// with the sign flipped. Pattern entries have the value one.
func Read(r io.Reader) (*triplet.Matrix, error) {
	scanner := bufio.NewScanner(r)
	line := 0

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("market: error reading header: %w", err)
		}
		return nil, fmt.Errorf("%w: empty input", ErrFormat)
	}
	line++
	h, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	var (
		m      *triplet.Matrix
		nnz    int
		loaded int
	)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '%' {
			continue
		}
		fields := strings.Fields(text)

		if m == nil {
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: size line needs 3 fields", ErrFormat, line)
			}
			var dims [3]int
			for k, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil || v < 0 {
					return nil, fmt.Errorf("%w: line %d: bad size %q", ErrFormat, line, f)
				}
				dims[k] = v
			}
			if h.symm != "general" && dims[0] != dims[1] {
				return nil, fmt.Errorf("%w: line %d: %s matrix not square", ErrFormat, line, h.symm)
			}
			m = triplet.New(dims[0], dims[1])
			nnz = dims[2]
			continue
		}

		want := 3
		if h.pattern {
			want = 2
		}
		if len(fields) != want {
			return nil, fmt.Errorf("%w: line %d: entry needs %d fields", ErrFormat, line, want)
		}
		if loaded == nnz {
			return nil, fmt.Errorf("%w: line %d: more than %d entries", ErrFormat, line, nnz)
		}
		i, err1 := strconv.Atoi(fields[0])
		j, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: line %d: bad index", ErrFormat, line)
		}
		rows, cols := m.Dims()
		if i < 1 || rows < i || j < 1 || cols < j {
			return nil, fmt.Errorf("%w: line %d: index (%d,%d) out of range", ErrFormat, line, i, j)
		}
		v := 1.0
		if !h.pattern {
			v, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad value: %w", ErrFormat, line, err)
			}
		}
		i--
		j--
		m.Append(i, j, v)
		if i != j {
			switch h.symm {
			case "symmetric":
				m.Append(j, i, v)
			case "skew-symmetric":
				m.Append(j, i, -v)
			}
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("market: error reading entries: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: missing size line", ErrFormat)
	}
	if loaded != nnz {
		return nil, fmt.Errorf("%w: got %d entries, want %d", ErrFormat, loaded, nnz)
	}
	return m, nil
}

func parseHeader(s string) (header, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 5 || fields[0] != "%%matrixmarket" || fields[1] != "matrix" {
		return header{}, fmt.Errorf("%w: bad banner %q", ErrFormat, s)
	}
	if fields[2] != "coordinate" {
		return header{}, fmt.Errorf("%w: unsupported format %q", ErrFormat, fields[2])
	}
	var h header
	switch fields[3] {
	case "real", "integer":
	case "pattern":
		h.pattern = true
	default:
		return header{}, fmt.Errorf("%w: unsupported field %q", ErrFormat, fields[3])
	}
	switch fields[4] {
	case "general", "symmetric", "skew-symmetric":
		h.symm = fields[4]
	default:
		return header{}, fmt.Errorf("%w: unsupported symmetry %q", ErrFormat, fields[4])
	}
	if h.pattern && h.symm == "skew-symmetric" {
		return header{}, fmt.Errorf("%w: skew-symmetric pattern", ErrFormat)
	}
	return h, nil
}
