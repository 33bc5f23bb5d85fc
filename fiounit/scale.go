// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiounit

import (
	"math"
	"strconv"
)

// A Scaler divides a normalized value by a decimal multiple for display.
type Scaler struct {
	Prec   int     // Digits after the decimal point, or -1 for the shortest exact form
	Factor float64 // Value of one Prefix in the normalized unit (1 k => 1000)
	Prefix string  // "", "k", "M", "G" or "T"
}

// Format formats val in s's scale and appends the prefix. For example,
// Scale(1500) returns "1.500k".
func (s Scaler) Format(val float64) string {
	return strconv.FormatFloat(val/s.Factor, 'f', s.Prec, 64) + s.Prefix
}

// NoOpScaler formats values with the fewest digits that represent them
// exactly and no prefix, for output read by other programs such as CSV.
var NoOpScaler = Scaler{-1, 1, ""}

// multiples lists the scales above the normalized unit, largest first.
// Values are never scaled below the unit itself: MB/s and ms are
// already the display units, so 0.5 ms formats as "0.5000", not "500m".
var multiples = []Scaler{
	{Factor: 1e12, Prefix: "T"},
	{Factor: 1e9, Prefix: "G"},
	{Factor: 1e6, Prefix: "M"},
	{Factor: 1e3, Prefix: "k"},
	{Factor: 1},
}

// Scale formats val with four significant digits and a decimal prefix
// no smaller than the unit.
func Scale(val float64) string {
	return CommonScale([]float64{val}).Format(val)
}

// CommonScale returns a Scaler for all of vals. The non-zero value
// closest to zero picks the prefix and gets four significant digits.
func CommonScale(vals []float64) Scaler {
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	s := multiples[len(multiples)-1]
	for _, m := range multiples {
		// Compare after rounding, so 999.96 becomes 1.000k
		// rather than 1000.0.
		if sig4(min/m.Factor) >= 1 {
			s = m
			break
		}
	}
	prec := 3 - int(math.Floor(math.Log10(sig4(min/s.Factor))))
	if prec < 1 {
		prec = 1
	}
	s.Prec = prec
	return s
}

// sig4 rounds x to four significant digits.
func sig4(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'g', 4, 64), 64)
	return r
}
