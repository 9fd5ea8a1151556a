// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dw

// FromSlice stores the double-word approximation of src into dst.
func FromSlice(dst []Float, src []float64) {
	if len(dst) != len(src) {
		panic("dw: length mismatch")
	}
	for i, v := range src {
		dst[i] = FromFloat64(v)
	}
}

// ToFloat64s stores the float64 value of src into dst.
func ToFloat64s(dst []float64, src []Float) {
	if len(dst) != len(src) {
		panic("dw: length mismatch")
	}
	for i, v := range src {
		dst[i] = v.Float64()
	}
}

// AddVec computes x += d elementwise.
func AddVec(x []Float, d []float32, mode Mode) {
	if len(x) != len(d) {
		panic("dw: length mismatch")
	}
	for i, v := range d {
		if mode == Sloppy {
			x[i] = AddFloat(x[i], v)
			continue
		}
		x[i] = Add(x[i], FromFloat32(v))
	}
}

// PackSlice stores the packed form of src into dst.
func PackSlice(dst []uint64, src []Float) {
	if len(dst) != len(src) {
		panic("dw: length mismatch")
	}
	for i, v := range src {
		dst[i] = Pack(v)
	}
}

// UnpackSlice is the inverse of PackSlice.
func UnpackSlice(dst []Float, src []uint64) {
	if len(dst) != len(src) {
		panic("dw: length mismatch")
	}
	for i, w := range src {
		dst[i] = Unpack(w)
	}
}
