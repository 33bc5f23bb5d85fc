// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiotab

import (
	"math"
	"strconv"
	"strings"
)

// toInt coerces v to an int for column col. Floats must be whole.
func toInt(col string, v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float32:
		return wholeInt(col, v, float64(x))
	case float64:
		return wholeInt(col, v, x)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, &ValueError{col, v, "not an integer"}
		}
		return n, nil
	}
	return 0, &ValueError{col, v, "not an integer"}
}

func wholeInt(col string, v interface{}, x float64) (int, error) {
	if x != math.Trunc(x) || math.IsInf(x, 0) {
		return 0, &ValueError{col, v, "not an integer"}
	}
	return int(x), nil
}

// A float64er is a number that can report itself as a float64, such
// as json.Number.
type float64er interface {
	Float64() (float64, error)
}

// toFloat coerces v to a float64 for column col.
func toFloat(col string, v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, &ValueError{col, v, "not a number"}
		}
		return f, nil
	case float64er:
		f, err := x.Float64()
		if err != nil {
			return 0, &ValueError{col, v, "not a number"}
		}
		return f, nil
	}
	return 0, &ValueError{col, v, "not a number"}
}
