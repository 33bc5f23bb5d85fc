// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiounit

import "testing"

func TestScale(t *testing.T) {
	for _, test := range []struct {
		val  float64
		want string
	}{
		{0, "0.000"},
		{1, "1.000"},
		{-1, "-1.000"},
		{42, "42.00"},
		{1500, "1.500k"},
		{250000, "250.0k"},
		{-250000, "-250.0k"},
		{999.96, "1.000k"},
		{12.5e6, "12.50M"},
		{3e9, "3.000G"},
		{2e13, "20.00T"},
		{1e15, "1000.0T"},
		// Values below the unit keep it.
		{0.5, "0.5000"},
		{0.002, "0.002000"},
	} {
		if got := Scale(test.val); got != test.want {
			t.Errorf("Scale(%v) = %s, want %s", test.val, got, test.want)
		}
	}
}

func TestCommonScale(t *testing.T) {
	// The smallest non-zero magnitude picks the scale.
	s := CommonScale([]float64{0, 1500, 250000})
	if got, want := s.Format(250000), "250.000k"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got, want := s.Format(0), "0.000k"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	// Sub-unit latencies are never given a milli prefix.
	s = CommonScale([]float64{0.5, 0.75, 1, 1.25})
	if s.Factor != 1 || s.Prefix != "" {
		t.Errorf("sub-unit scale %+v, want factor 1 and no prefix", s)
	}
	if got, want := s.Format(1.25), "1.2500"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNoOpScaler(t *testing.T) {
	test := func(val float64, want string) {
		t.Helper()
		got := NoOpScaler.Format(val)
		if got != want {
			t.Errorf("for %v, got %s, want %s", val, got, want)
		}
	}

	test(1, "1")
	test(0.5, "0.5")
	test(123456789, "123456789")
	test(123.456789, "123.456789")
}
