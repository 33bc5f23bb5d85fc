// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiotab implements the table of fio observations that the
// parsers produce and the charts consume.
//
// A Table has a fixed schema of five columns (see Columns). Parsers
// build one Table per result file with Append; the driver then merges
// those into a master Table, which is only queried from then on:
// FilterBy selects rows, and Operations, Metrics, BlockSizes and
// Threads report the distinct values of a column.
//
// Filtering, concatenation and aggregation are delegated to the go-gg
// table package, so every query returns a new Table that shares no
// storage with its input.
package fiotab

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"golang.org/x/fioplot/fiounit"
)

// Column names.
const (
	Threads   = "threads"
	Operation = "operation"
	BlockSize = "block_size"
	Metric    = "metric"
	Value     = "value"
)

// Columns lists the columns of a Table in order.
var Columns = []string{Threads, Operation, BlockSize, Metric, Value}

// An Observation is one row of a Table.
type Observation struct {
	// Threads is the id of the worker group that produced this
	// measurement, usually its thread count. It is 0 for
	// measurements that are not attributed to a group.
	Threads int

	// Operation is the workload, such as "read" or "randwrite".
	Operation string

	// BlockSize is the I/O block size in KiB.
	BlockSize int

	// Metric names the measurement as <direction>_<kind>, such as
	// "read_bw" or "write_iops".
	Metric string

	// Value is the measurement in the normalized unit for its
	// metric: MB/s, milliseconds, or a count.
	Value float64
}

// A Table is an ordered sequence of Observations stored by column.
//
// The zero Table is empty and ready to use.
type Table struct {
	threads    []int
	operations []string
	blockSizes []int
	metrics    []string
	values     []float64
}

// A ColumnError reports a query on a column that is not one of Columns.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("fiotab: invalid column %q", e.Column)
}

// A ValueError reports a value that could not be stored in a column.
type ValueError struct {
	Column string
	Value  interface{}
	Msg    string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("fiotab: bad %s %#v: %s", e.Column, e.Value, e.Msg)
}

func checkColumn(col string) error {
	for _, c := range Columns {
		if c == col {
			return nil
		}
	}
	return &ColumnError{col}
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return len(t.values)
}

// Row returns row i of t.
func (t *Table) Row(i int) Observation {
	return Observation{t.threads[i], t.operations[i], t.blockSizes[i], t.metrics[i], t.values[i]}
}

// Rows returns all rows of t in order.
func (t *Table) Rows() []Observation {
	rows := make([]Observation, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Add appends obs to t after validating its tags.
func (t *Table) Add(obs Observation) error {
	if obs.Operation == "" {
		return &ValueError{Operation, obs.Operation, "empty operation"}
	}
	if obs.BlockSize <= 0 {
		return &ValueError{BlockSize, obs.BlockSize, "block size must be positive"}
	}
	if fiounit.KindOf(obs.Metric) == fiounit.Unknown {
		return &ValueError{Metric, obs.Metric, "metric must be <direction>_<iop|iops|bw|lat>"}
	}
	t.threads = append(t.threads, obs.Threads)
	t.operations = append(t.operations, obs.Operation)
	t.blockSizes = append(t.blockSizes, obs.BlockSize)
	t.metrics = append(t.metrics, obs.Metric)
	t.values = append(t.values, obs.Value)
	return nil
}

// Append adds one row to t. blockSize is coerced to an int and value
// to a float64; each may be given as any Go integer or float type or
// as a decimal string. If coercion fails, Append returns a *ValueError
// and t is unchanged.
func (t *Table) Append(threads int, operation string, blockSize interface{}, metric string, value interface{}) error {
	bs, err := toInt(BlockSize, blockSize)
	if err != nil {
		return err
	}
	v, err := toFloat(Value, value)
	if err != nil {
		return err
	}
	return t.Add(Observation{threads, operation, bs, metric, v})
}

// Merge appends the rows of other to t, after t's own rows. It does
// not look for duplicate rows.
func (t *Table) Merge(other *Table) {
	if other.Len() == 0 {
		return
	}
	t.load(table.Flatten(table.Concat(t.gg(), other.gg())))
}

// FilterBy returns a new Table with the rows of t whose column col is
// equal to value. The comparison is Go interface equality, so value
// must have the column's type (int for Threads and BlockSize, string
// for Operation and Metric, float64 for Value) to match anything.
func (t *Table) FilterBy(col string, value interface{}) (*Table, error) {
	if err := checkColumn(col); err != nil {
		return nil, err
	}
	nt := new(Table)
	nt.load(table.Flatten(table.FilterEq(t.gg(), col, value)))
	return nt, nil
}

// Operations returns the distinct operations in t, sorted.
func (t *Table) Operations() []string {
	ops := slice.Nub(t.operations).([]string)
	slice.Sort(ops)
	return ops
}

// BlockSizes returns the distinct block sizes in t, sorted.
func (t *Table) BlockSizes() []int {
	bs := slice.Nub(t.blockSizes).([]int)
	slice.Sort(bs)
	return bs
}

// Threads returns the distinct thread counts in t, sorted.
func (t *Table) Threads() []int {
	ths := slice.Nub(t.threads).([]int)
	slice.Sort(ths)
	return ths
}

// Metrics returns the distinct metrics in t, sorted. If nonEmpty is
// true, it omits metrics whose minimum and maximum Value are both
// exactly zero, which is how fio reports a direction that saw no I/O.
func (t *Table) Metrics(nonEmpty bool) []string {
	if t.Len() == 0 {
		return []string{}
	}
	agg := ggstat.Agg(Metric)(ggstat.AggMin(Value), ggstat.AggMax(Value)).F(t.gg())
	at := table.Flatten(agg)
	names := at.MustColumn(Metric).([]string)
	mins := at.MustColumn("min " + Value).([]float64)
	maxs := at.MustColumn("max " + Value).([]float64)

	metrics := make([]string, 0, len(names))
	for i, name := range names {
		if nonEmpty && mins[i] == 0 && maxs[i] == 0 {
			continue
		}
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)
	return metrics
}

// Bounds returns the minimum and maximum Value of metric in t. If t
// has no rows for metric, both are NaN.
func (t *Table) Bounds(metric string) (min, max float64) {
	var xs []float64
	for i, m := range t.metrics {
		if m == metric {
			xs = append(xs, t.values[i])
		}
	}
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	return stats.Bounds(xs)
}

// Project returns the rows of t restricted to cols, in row order. Each
// element of a row has the column's Go type.
func (t *Table) Project(cols ...string) ([][]interface{}, error) {
	for _, col := range cols {
		if err := checkColumn(col); err != nil {
			return nil, err
		}
	}
	rows := make([][]interface{}, t.Len())
	for i := range rows {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = t.cell(i, col)
		}
		rows[i] = row
	}
	return rows, nil
}

func (t *Table) cell(i int, col string) interface{} {
	switch col {
	case Threads:
		return t.threads[i]
	case Operation:
		return t.operations[i]
	case BlockSize:
		return t.blockSizes[i]
	case Metric:
		return t.metrics[i]
	case Value:
		return t.values[i]
	}
	panic("unknown column " + col)
}

// Fprint writes t to w as an aligned text table with a header row.
func (t *Table) Fprint(w io.Writer) error {
	return table.Fprint(w, t.gg(), "%d", "%s", "%d", "%s", "%g")
}

// gg returns t as a go-gg table. The columns are never empty nil
// slices, so the result always has all five columns even when t has
// no rows.
func (t *Table) gg() *table.Table {
	var b table.Builder
	b.Add(Threads, append([]int{}, t.threads...))
	b.Add(Operation, append([]string{}, t.operations...))
	b.Add(BlockSize, append([]int{}, t.blockSizes...))
	b.Add(Metric, append([]string{}, t.metrics...))
	b.Add(Value, append([]float64{}, t.values...))
	return b.Done()
}

// load replaces the contents of t with gt, which must have been built
// by gg or derived from such a table.
func (t *Table) load(gt *table.Table) {
	if gt.Len() == 0 {
		*t = Table{}
		return
	}
	t.threads = ints(gt.MustColumn(Threads))
	t.operations = strs(gt.MustColumn(Operation))
	t.blockSizes = ints(gt.MustColumn(BlockSize))
	t.metrics = strs(gt.MustColumn(Metric))
	t.values = floats(gt.MustColumn(Value))
}

// The helpers below cap the column slices so a later append to t can
// never write into storage shared with another table.

func ints(s table.Slice) []int {
	x := s.([]int)
	return x[:len(x):len(x)]
}

func strs(s table.Slice) []string {
	x := s.([]string)
	return x[:len(x):len(x)]
}

func floats(s table.Slice) []float64 {
	x := s.([]float64)
	return x[:len(x):len(x)]
}
