// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiofmt reads the result files written by the fio I/O
// benchmark.
//
// A result set is a directory of files named <op>.<bs>k.result, each
// holding fio's normal text output for one operation and block size,
// or <op>.<bs>k.result.json holding its JSON report. RawReader and
// JSONReader parse one file into a fiotab.Table; Files walks a whole
// directory.
package fiofmt

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/fioplot/fiotab"
)

// DefaultGroupPrefix is the group prefix used when none is given.
const DefaultGroupPrefix = "thread"

// A Format is the output format of an fio result file.
type Format int

const (
	// Raw is fio's default "normal" text output.
	Raw Format = iota
	// JSON is the output of fio --output-format=json.
	JSON
)

func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case JSON:
		return "json"
	}
	return "Format(?)"
}

// Meta describes a result file, as derived from its name.
type Meta struct {
	// Operation is the fio rw mode, such as "randread".
	Operation string
	// BlockSize is the block size in KiB, as written in the name.
	BlockSize string
	Format    Format
}

// A Parser parses one fio result file into a table.
type Parser interface {
	Parse(r io.Reader, fileName string, m Meta) (*fiotab.Table, error)
}

var resultName = regexp.MustCompile(`^([a-z]+)\.(\d+)k\.result((?i:\.json))?$`)

// Classify reports whether name, the base name of a file, names an fio
// result file, and if so returns the operation, block size and format
// encoded in it. Result files are named <op>.<bs>k.result, with a
// ".json" suffix for JSON reports.
func Classify(name string) (Meta, bool) {
	m := resultName.FindStringSubmatch(name)
	if m == nil {
		return Meta{}, false
	}
	meta := Meta{Operation: m[1], BlockSize: m[2], Format: Raw}
	if m[3] != "" {
		meta.Format = JSON
	}
	return meta, true
}

// ParseFile parses the result file at path using the reader for
// m.Format and group prefix. An empty prefix means
// DefaultGroupPrefix.
func ParseFile(path string, m Meta, prefix string) (*fiotab.Table, error) {
	if prefix == "" {
		prefix = DefaultGroupPrefix
	}
	var p Parser
	switch m.Format {
	case JSON:
		p = NewJSONReader(prefix)
	default:
		p = NewRawReader(prefix)
	}
	return parseFile(p, path, m)
}

func parseFile(p Parser, path string, m Meta) (*fiotab.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f, path, m)
}

// A Files reads the fio result files in a directory.
//
// Files visits the entries of Dir in lexical order, skipping
// directories and names that Classify rejects. Each result file is
// parsed on its own; a failure to parse one file is reported by Result
// and does not stop the scan.
type Files struct {
	// Dir is the directory to read.
	Dir string

	// GroupPrefix is the prefix of fio group and job names that
	// carry the thread count. If empty, DefaultGroupPrefix is used.
	GroupPrefix string

	// names is the sequence of remaining result files, or nil if
	// this Files has not started yet.
	names []string

	raw *RawReader
	js  *JSONReader

	path  string
	meta  Meta
	table *fiotab.Table
	perr  error
	err   error
}

// init does first-use initialization of f.
func (f *Files) init() {
	f.names = []string{}
	prefix := f.GroupPrefix
	if prefix == "" {
		prefix = DefaultGroupPrefix
	}
	f.raw = NewRawReader(prefix)
	f.js = NewJSONReader(prefix)

	ents, err := os.ReadDir(f.Dir)
	if err != nil {
		f.err = err
		return
	}
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		if _, ok := Classify(ent.Name()); ok {
			f.names = append(f.names, ent.Name())
		}
	}
	sort.Strings(f.names)
}

// Scan parses the next result file and reports whether there was one.
// The caller should use Result to get the parsed table. When Scan
// returns false, the caller should check Err for an error reading the
// directory.
func (f *Files) Scan() bool {
	if f.names == nil {
		f.init()
	}
	if f.err != nil || len(f.names) == 0 {
		return false
	}
	name := f.names[0]
	f.names = f.names[1:]

	f.meta, _ = Classify(name)
	f.path = filepath.Join(f.Dir, name)
	var p Parser = f.raw
	if f.meta.Format == JSON {
		p = f.js
	}
	f.table, f.perr = parseFile(p, f.path, f.meta)
	return true
}

// Result returns the table parsed by the last Scan, or the error that
// prevented parsing it. The error is typically a *SyntaxError,
// *ValidationError, *KeyError, *fiotab.ValueError or an I/O error.
func (f *Files) Result() (*fiotab.Table, error) {
	return f.table, f.perr
}

// Table returns the table parsed by the last Scan, or nil if parsing
// failed.
func (f *Files) Table() *fiotab.Table {
	return f.table
}

// Path returns the path of the file read by the last Scan.
func (f *Files) Path() string {
	return f.path
}

// Meta returns the classification of the file read by the last Scan.
func (f *Files) Meta() Meta {
	return f.meta
}

// Summaries returns the "Run status" summaries of the file read by the
// last Scan, if it was a raw file. See RawReader.Summaries.
func (f *Files) Summaries() map[int][]string {
	if f.meta.Format != Raw || f.raw == nil {
		return nil
	}
	return f.raw.Summaries()
}

// Err returns the error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}
