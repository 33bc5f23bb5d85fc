// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiounit normalizes the units that fio reports and formats
// numbers in those units.
//
// fio prints bandwidth with IEC prefixes ("48.1MiB/s"), latency with a
// unit label ("lat (usec)"), and IOPS with an optional SI suffix
// ("12.3k"). The functions in this package convert all of these to the
// units used throughout fioplot: MB/s for bandwidth, milliseconds for
// latency, and a plain count for IOPS.
package fiounit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A Kind is the kind of quantity a metric measures.
type Kind int

const (
	// Unknown is any metric that does not follow the
	// <direction>_<kind> naming convention.
	Unknown Kind = iota
	// IOPS is a count of I/O operations per second.
	IOPS
	// Bandwidth is a data rate in MB/s.
	Bandwidth
	// Latency is a duration in milliseconds.
	Latency
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case IOPS:
		return "IOPS"
	case Bandwidth:
		return "Bandwidth"
	case Latency:
		return "Latency"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Unit returns the normalized unit of values of kind k: "iops",
// "MB/s" or "ms". It returns "" for Unknown.
func (k Kind) Unit() string {
	switch k {
	case IOPS:
		return "iops"
	case Bandwidth:
		return "MB/s"
	case Latency:
		return "ms"
	}
	return ""
}

// KindOf returns the Kind of a metric name such as "read_bw" or
// "write_iops". Both the "iop" and "iops" spellings are IOPS.
func KindOf(metric string) Kind {
	i := strings.LastIndexByte(metric, '_')
	if i <= 0 {
		return Unknown
	}
	switch metric[i+1:] {
	case "iop", "iops":
		return IOPS
	case "bw":
		return Bandwidth
	case "lat":
		return Latency
	}
	return Unknown
}

// AxisLabel returns the label to put on a value axis for metric. The
// match is by substring, so it also labels metrics that KindOf does
// not recognize.
//
// Latencies are stored in milliseconds, but the label has always read
// "ns" and existing charts are compared against it.
func AxisLabel(metric string) string {
	switch {
	case strings.Contains(metric, "bw"):
		return "MB/s"
	case strings.Contains(metric, "lat"):
		return "ns"
	case strings.Contains(metric, "iop"):
		return "iops"
	}
	return ""
}

// A NumError records a failed conversion of fio numeric text.
type NumError struct {
	Func string // the failing function (ParseBandwidth, ParseIOPS)
	Num  string // the input
	Msg  string
}

func (e *NumError) Error() string {
	return "fiounit." + e.Func + ": parsing " + strconv.Quote(e.Num) + ": " + e.Msg
}

// splitNumber splits s into a leading decimal number and the rest.
func splitNumber(s string) (num, rest string) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	return s[:i], s[i:]
}

// bwFactors maps fio's bandwidth prefixes to the factor that converts
// them to MB/s.
var bwFactors = []struct {
	prefix string
	factor float64
}{
	{"Ki", 1.0 / 1024},
	{"Mi", 1},
	{"Gi", 1 << 20},
	{"Ti", 1 << 30},
	{"B", 1.0 / (1024 * 1024)},
}

// ParseBandwidth parses an fio bandwidth value such as "48.1MiB/s" or
// "512KiB/s" and returns it in MB/s. A leading "=" is ignored, as is
// anything after the unit prefix. A value with no unit is taken to be
// in MB/s already.
func ParseBandwidth(s string) (float64, error) {
	num, rest := splitNumber(strings.TrimPrefix(s, "="))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, &NumError{"ParseBandwidth", s, "invalid number"}
	}
	if rest == "" {
		return v, nil
	}
	for _, f := range bwFactors {
		if strings.HasPrefix(rest, f.prefix) {
			return v * f.factor, nil
		}
	}
	return 0, &NumError{"ParseBandwidth", s, "unknown unit " + strconv.Quote(rest)}
}

// ParseIOPS parses an fio IOPS value such as "850" or "12.3k". A "k"
// suffix scales by 1e3 and an "m" suffix by 1e6; scaled values are
// truncated to a whole count.
func ParseIOPS(s string) (float64, error) {
	s = strings.TrimPrefix(s, "=")
	factor := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		factor, s = 1e3, s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		factor, s = 1e6, s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &NumError{"ParseIOPS", s, "invalid number"}
	}
	if factor != 1 {
		v = math.Trunc(v * factor)
	}
	return v, nil
}

// Millis converts a latency v to milliseconds. u is the first letter
// of fio's unit label: 'u' for usec, 'n' for nsec, 's' for sec. Any
// other letter, including 'm', means v is already in milliseconds.
func Millis(v float64, u byte) float64 {
	switch u {
	case 'u':
		return v / 1e3
	case 'n':
		return v / 1e6
	case 's':
		return v * 1e3
	}
	return v
}
