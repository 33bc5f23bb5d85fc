// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiofmt

import "fmt"

// A SyntaxError represents malformed text on a particular line of an
// fio result file. Line is 0 if the position is not known, as for
// errors in JSON reports.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A ValidationError reports a JSON report whose global options
// disagree with the operation or block size encoded in its file name.
// This usually means the file was renamed or copied into the wrong
// result set.
type ValidationError struct {
	FileName string
	Field    string // "rw" or "bs"
	Got      string // value in the report
	Want     string // value from the file name
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: wrong %s (value: %s, expected: %s)", e.FileName, e.Field, e.Got, e.Want)
}

// A KeyError reports a key missing from a JSON report. Key is the
// full path to the missing value, such as "jobs[1].read.lat_ns.mean".
type KeyError struct {
	FileName string
	Key      string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: missing key %s", e.FileName, e.Key)
}
