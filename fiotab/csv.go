// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiotab

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/fioplot/fiounit"
)

// WriteCSV writes t to out as CSV, with a header row naming Columns
// followed by one record per row. Values are written with full
// precision.
func (t *Table) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		rec := []string{
			strconv.Itoa(t.threads[i]),
			t.operations[i],
			strconv.Itoa(t.blockSizes[i]),
			t.metrics[i],
			fiounit.NoOpScaler.Format(t.values[i]),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
