// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		got := a.pad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 6, "abc   ")
	check("abc", alignRight, 6, "   abc")
	check("abcdef", alignRight, 3, "abcdef")
	check("µs", alignRight, 4, "  µs")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		tab = Table{}
	}

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding, without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a     b  c\nlong  e  long\n")

	// Right alignment.
	tab.Row().Cell("name").Cell("value", Right)
	tab.Row().Cell("x").Cell("1.5", Right)
	check("name  value\nx       1.5\n")

	// Short rows and blank rows.
	tab.Row().Cell("a")
	tab.Row()
	tab.Row().Cell("b").Cell("c")
	check("a\n\nb  c\n")

	// Cell without Row.
	tab.Cell("x")
	check("x\n")

	// Empty table.
	check("")
}
