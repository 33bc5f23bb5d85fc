// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiotab

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genObservation() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 64),
		gen.OneConstOf("read", "write", "randread", "randwrite"),
		gen.OneConstOf(4, 16, 64, 1024),
		gen.OneConstOf("read_iop", "read_bw", "read_lat", "write_iops", "write_bw", "write_lat"),
		gen.OneConstOf(0.0, 0.5, 12.25, 1000.0),
	).Map(func(v []interface{}) Observation {
		return Observation{v[0].(int), v[1].(string), v[2].(int), v[3].(string), v[4].(float64)}
	})
}

func fromRows(rows []Observation) *Table {
	tab := new(Table)
	for _, o := range rows {
		if err := tab.Add(o); err != nil {
			panic(err)
		}
	}
	return tab
}

func TestProperty_Table(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	rows := gen.SliceOf(genObservation())

	properties.Property("Merge appends other's rows after its own", prop.ForAll(
		func(a, b []Observation) bool {
			ta, tb := fromRows(a), fromRows(b)
			ta.Merge(tb)
			want := append(append([]Observation{}, a...), b...)
			return reflect.DeepEqual(ta.Rows(), want) || len(want) == 0 && ta.Len() == 0
		},
		rows, rows,
	))

	properties.Property("Merge is associative", prop.ForAll(
		func(a, b, c []Observation) bool {
			left := fromRows(a)
			left.Merge(fromRows(b))
			left.Merge(fromRows(c))

			bc := fromRows(b)
			bc.Merge(fromRows(c))
			right := fromRows(a)
			right.Merge(bc)

			return reflect.DeepEqual(left.Rows(), right.Rows())
		},
		rows, rows, rows,
	))

	properties.Property("FilterBy on an unknown column always fails", prop.ForAll(
		func(a []Observation, col string) bool {
			if checkColumn(col) == nil {
				return true
			}
			_, err := fromRows(a).FilterBy(col, 1)
			var ce *ColumnError
			return errors.As(err, &ce)
		},
		rows, gen.AnyString(),
	))

	properties.Property("FilterBy keeps exactly the matching rows in order", prop.ForAll(
		func(a []Observation, op string) bool {
			got, err := fromRows(a).FilterBy(Operation, op)
			if err != nil {
				return false
			}
			var want []Observation
			for _, o := range a {
				if o.Operation == op {
					want = append(want, o)
				}
			}
			return got.Len() == len(want) && (len(want) == 0 || reflect.DeepEqual(got.Rows(), want))
		},
		rows, gen.OneConstOf("read", "write", "randread", "randwrite", "trim"),
	))

	properties.Property("Metrics(true) omits exactly the all-zero metrics", prop.ForAll(
		func(a []Observation) bool {
			seen := map[string]bool{}
			nonZero := map[string]bool{}
			for _, o := range a {
				seen[o.Metric] = true
				if o.Value != 0 {
					nonZero[o.Metric] = true
				}
			}
			keys := func(m map[string]bool) []string {
				ks := []string{}
				for k := range m {
					ks = append(ks, k)
				}
				sort.Strings(ks)
				return ks
			}
			tab := fromRows(a)
			return reflect.DeepEqual(tab.Metrics(true), keys(nonZero)) &&
				reflect.DeepEqual(tab.Metrics(false), keys(seen))
		},
		rows,
	))

	properties.TestingRun(t)
}
