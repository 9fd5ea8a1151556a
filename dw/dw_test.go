// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dw

import (
	"math"
	"math/rand"
	"testing"
)

func TestErrorFreeTransformations(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		a := float32(rnd.NormFloat64() * 100)
		b := float32(rnd.NormFloat64())
		s, e := TwoSum(a, b)
		if float64(s)+float64(e) != float64(a)+float64(b) {
			t.Fatalf("TwoSum(%v,%v) not exact: %v + %v", a, b, s, e)
		}
		if math.Abs(float64(a)) >= math.Abs(float64(b)) {
			fs, fe := FastTwoSum(a, b)
			if fs != s || fe != e {
				t.Fatalf("FastTwoSum(%v,%v) = %v,%v, want %v,%v", a, b, fs, fe, s, e)
			}
		}
		p, e := TwoProd(a, b)
		if float64(p)+float64(e) != float64(a)*float64(b) {
			t.Fatalf("TwoProd(%v,%v) not exact: %v + %v", a, b, p, e)
		}
		if p != a*b {
			t.Fatalf("TwoProd(%v,%v) head %v, want %v", a, b, p, a*b)
		}
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func TestArithmetic(t *testing.T) {
	const tol = 1e-13
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		x := FromFloat64(rnd.NormFloat64())
		y := FromFloat64(rnd.NormFloat64() * math.Pow(2, float64(rnd.Intn(20)-10)))
		xf, yf := x.Float64(), y.Float64()
		f := float32(rnd.NormFloat64())

		if e := relErr(Add(x, y).Float64(), xf+yf); e > tol {
			t.Errorf("Add(%v,%v): relative error %v", x, y, e)
		}
		if e := relErr(Sub(x, y).Float64(), xf-yf); e > tol {
			t.Errorf("Sub(%v,%v): relative error %v", x, y, e)
		}
		if e := relErr(AddFloat(x, f).Float64(), xf+float64(f)); e > tol {
			t.Errorf("AddFloat(%v,%v): relative error %v", x, f, e)
		}
		if e := relErr(Mul(x, y).Float64(), xf*yf); e > tol {
			t.Errorf("Mul(%v,%v): relative error %v", x, y, e)
		}
		if e := relErr(MulFloat(x, f).Float64(), xf*float64(f)); e > tol {
			t.Errorf("MulFloat(%v,%v): relative error %v", x, f, e)
		}
		// Sloppy addition is accurate for operands of equal sign.
		ax, ay := Float{Hi: abs32(x.Hi), Lo: sign32(x.Hi) * x.Lo}, Float{Hi: abs32(y.Hi), Lo: sign32(y.Hi) * y.Lo}
		if e := relErr(AddSloppy(ax, ay).Float64(), ax.Float64()+ay.Float64()); e > tol {
			t.Errorf("AddSloppy(%v,%v): relative error %v", ax, ay, e)
		}
	}
}

func abs32(v float32) float32 { return float32(math.Abs(float64(v))) }

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

func TestNormalized(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		z := Add(FromFloat64(rnd.NormFloat64()), FromFloat64(rnd.NormFloat64()))
		if z.Hi != z.Float32() {
			t.Errorf("head %v does not dominate tail %v", z.Hi, z.Lo)
		}
	}
}

func TestFromFloat64(t *testing.T) {
	v := 1 + math.Pow(2, -30)
	x := FromFloat64(v)
	if x.Hi != 1 || x.Lo != float32(math.Pow(2, -30)) || x.Float64() != v {
		t.Errorf("FromFloat64(%v) = %v", v, x)
	}
	if x.Float32() != 1 {
		t.Errorf("Float32() = %v, want 1", x.Float32())
	}
}

func TestPack(t *testing.T) {
	x := Float{Hi: 1.5, Lo: -3e-8}
	w := Pack(x)
	if w>>32 != uint64(math.Float32bits(1.5)) {
		t.Errorf("head not in upper word: %#x", w)
	}
	if Unpack(w) != x {
		t.Errorf("Unpack(Pack(%v)) = %v", x, Unpack(w))
	}

	src := []Float{x, {Hi: -2}, {}}
	packed := make([]uint64, len(src))
	PackSlice(packed, src)
	got := make([]Float, len(src))
	UnpackSlice(got, packed)
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("element %v: got %v, want %v", i, got[i], src[i])
		}
	}
}

func TestAddVec(t *testing.T) {
	for _, mode := range []Mode{Accurate, Sloppy} {
		x := make([]Float, 3)
		FromSlice(x, []float64{1, -2, 1e-10})
		AddVec(x, []float32{1e-9, 1, 3}, mode)
		got := make([]float64, 3)
		ToFloat64s(got, x)
		want := []float64{1 + float64(float32(1e-9)), -1, 3 + float64(FromFloat64(1e-10).Hi) + float64(FromFloat64(1e-10).Lo)}
		for i := range want {
			if relErr(got[i], want[i]) > 1e-13 {
				t.Errorf("mode %v element %v: got %v, want %v", mode, i, got[i], want[i])
			}
		}
	}
}
