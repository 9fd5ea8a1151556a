// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dw implements double-word arithmetic on pairs of float32 values.
//
// A Float represents the unevaluated sum Hi + Lo with |Lo| <= ulp(Hi)/2.
// The operations are built from the error-free transformations TwoSum,
// FastTwoSum and TwoProd and follow
//  M. Joldes, J.-M. Muller, V. Popescu, Tight and rigorous error bounds for
//  basic building blocks of double-word arithmetic, ACM TOMS 44(2), 2017.
package dw

import "math"

// Float is a double-word number Hi + Lo.
type Float struct {
	Hi, Lo float32
}

// Mode selects the double-word addition algorithm.
type Mode int

const (
	// Accurate uses the addition with a relative error bound of about
	// 3u², u = 2⁻²⁴, for any operands.
	Accurate Mode = iota
	// Sloppy uses the cheaper addition that is only accurate when the
	// operands have the same sign.
	Sloppy
)

// TwoSum returns s = fl(a+b) and the rounding error e, so that s + e = a + b
// exactly.
func TwoSum(a, b float32) (s, e float32) {
	s = a + b
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return s, e
}

// FastTwoSum is TwoSum for |a| >= |b|.
func FastTwoSum(a, b float32) (s, e float32) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// TwoProd returns p = fl(a*b) and the rounding error e, so that p + e = a*b
// exactly. The product of two float32 values has at most 48 significant
// bits and is therefore exact in float64.
func TwoProd(a, b float32) (p, e float32) {
	x := float64(a) * float64(b)
	p = float32(x)
	e = float32(x - float64(p))
	return p, e
}

// FromFloat32 returns v as a double-word number.
func FromFloat32(v float32) Float { return Float{Hi: v} }

// FromFloat64 returns the double-word number nearest to v.
func FromFloat64(v float64) Float {
	hi := float32(v)
	return Float{Hi: hi, Lo: float32(v - float64(hi))}
}

// Float64 returns Hi + Lo rounded to float64.
func (x Float) Float64() float64 { return float64(x.Hi) + float64(x.Lo) }

// Float32 returns Hi + Lo rounded to float32.
func (x Float) Float32() float32 { return float32(x.Float64()) }

// Neg returns -x.
func (x Float) Neg() Float { return Float{Hi: -x.Hi, Lo: -x.Lo} }

// AddFloat returns x + y.
func AddFloat(x Float, y float32) Float {
	sh, sl := TwoSum(x.Hi, y)
	v := x.Lo + sl
	zh, zl := FastTwoSum(sh, v)
	return Float{Hi: zh, Lo: zl}
}

// Add returns x + y using the accurate algorithm.
func Add(x, y Float) Float {
	sh, sl := TwoSum(x.Hi, y.Hi)
	th, tl := TwoSum(x.Lo, y.Lo)
	c := sl + th
	vh, vl := FastTwoSum(sh, c)
	w := tl + vl
	zh, zl := FastTwoSum(vh, w)
	return Float{Hi: zh, Lo: zl}
}

// AddSloppy returns x + y using the sloppy algorithm.
func AddSloppy(x, y Float) Float {
	sh, sl := TwoSum(x.Hi, y.Hi)
	v := x.Lo + y.Lo
	w := sl + v
	zh, zl := FastTwoSum(sh, w)
	return Float{Hi: zh, Lo: zl}
}

// AddMode returns x + y using the algorithm selected by mode.
func AddMode(x, y Float, mode Mode) Float {
	if mode == Sloppy {
		return AddSloppy(x, y)
	}
	return Add(x, y)
}

// Sub returns x - y using the accurate algorithm.
func Sub(x, y Float) Float { return Add(x, y.Neg()) }

// MulFloat returns x * y.
func MulFloat(x Float, y float32) Float {
	ch, cl1 := TwoProd(x.Hi, y)
	cl3 := x.Lo*y + cl1
	zh, zl := FastTwoSum(ch, cl3)
	return Float{Hi: zh, Lo: zl}
}

// Mul returns x * y.
func Mul(x, y Float) Float {
	ch, cl1 := TwoProd(x.Hi, y.Hi)
	tl := x.Hi * y.Lo
	cl2 := tl + x.Lo*y.Hi
	cl3 := cl1 + cl2
	zh, zl := FastTwoSum(ch, cl3)
	return Float{Hi: zh, Lo: zl}
}

// Pack stores x in a single 64-bit word with Hi in the upper half.
func Pack(x Float) uint64 {
	return uint64(math.Float32bits(x.Hi))<<32 | uint64(math.Float32bits(x.Lo))
}

// Unpack is the inverse of Pack.
func Unpack(w uint64) Float {
	return Float{
		Hi: math.Float32frombits(uint32(w >> 32)),
		Lo: math.Float32frombits(uint32(w)),
	}
}
