// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fioplot reads a directory of fio benchmark results and charts them.
//
// Usage:
//
//	fioplot [flags] RESULT_DIR
//
// RESULT_DIR holds one file per operation and block size, named
// <op>.<bs>k.result for fio's normal output or <op>.<bs>k.result.json
// for its JSON output (fio --output-format=json). Other files are
// ignored. For example, a directory with randread.4k.result and
// randread.64k.result.json yields one "randread" panel with a line for
// each block size.
//
// Each fio job group must be named <prefix>_N, where N is the number
// of threads it ran, for example with "--name=thread_8 --numjobs=8
// --group_reporting". The prefix defaults to "thread" and is set with
// -group-prefix-name. N becomes the x axis of every chart.
//
// By default fioplot writes the chart to plot.png in the current
// directory. The -o flag selects another file, and its extension
// selects the image format: png, jpg, tiff, svg or pdf.
//
// The -csv, -summary and -dump flags write the parsed measurements as
// CSV, as a table of per-metric ranges, or as a raw table dump.
//
// By default, fioplot stops at the first result file it cannot parse.
// With -keep-going, it reports each such file, charts the rest, and
// exits with status 1.
//
// # Defaults file
//
// If $HOME/.fioplot exists, or the file named by -config, fioplot
// reads flag defaults from its [fioplot] section:
//
//	[fioplot]
//	group-prefix-name = job
//	operations = read,write
//	output = /tmp/fio.svg
//	create-image = true
//	show-plot = false
//
// Flags given on the command line override the file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/fioplot/fiochart"
	"golang.org/x/fioplot/fiofmt"
	"golang.org/x/fioplot/fiotab"
	"golang.org/x/fioplot/fiounit"
	"golang.org/x/fioplot/internal/texttab"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("fioplot: ")
	log.SetFlags(0)

	err := fioplot(os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		exit(0)
	case errors.Is(err, errUsage):
		exit(1)
	default:
		log.Print(err)
		exit(1)
	}
}

var errUsage = errors.New("usage error")

// options holds the parsed command line.
type options struct {
	groupPrefix string
	createImage bool
	output      string
	showPlot    bool
	operations  string
	keepGoing   bool
	csv         string
	summary     bool
	dump        bool
	verbose     bool
	config      string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.groupPrefix, "group-prefix-name", fiofmt.DefaultGroupPrefix, "fio job group name `prefix`")
	fs.BoolVar(&o.createImage, "create-image", true, "write the chart image")
	fs.StringVar(&o.output, "o", "plot.png", "write the chart image to `file`")
	fs.BoolVar(&o.showPlot, "show-plot", false, "open the chart in the system image viewer")
	fs.StringVar(&o.operations, "ops", "randread,read,randwrite,write", "chart the comma-separated `operations`")
	fs.BoolVar(&o.keepGoing, "keep-going", false, "skip result files that fail to parse")
	fs.StringVar(&o.csv, "csv", "", "write all measurements as CSV to `file` (- for stdout)")
	fs.BoolVar(&o.summary, "summary", false, "print the range of each metric")
	fs.BoolVar(&o.dump, "dump", false, "print the raw measurement table")
	fs.BoolVar(&o.verbose, "v", false, "print progress and fio run status summaries")
	fs.StringVar(&o.config, "config", defaultConfig(), "read flag defaults from INI `file`")
}

// fioplot runs the command with the given arguments, writing normal
// output to w and diagnostics to wErr.
func fioplot(w, wErr io.Writer, args []string) error {
	logger := log.New(wErr, "fioplot: ", 0)

	fs := flag.NewFlagSet("fioplot", flag.ContinueOnError)
	fs.SetOutput(wErr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: fioplot [flags] RESULT_DIR

fioplot reads the fio result files in RESULT_DIR and charts IOPS,
bandwidth and latency against thread count, one panel per operation.

`)
		fs.PrintDefaults()
	}
	var o options
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		// fs has already printed the error and usage.
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	if err := loadConfig(fs, o.config); err != nil {
		return err
	}
	dir := fs.Arg(0)

	verbosef := func(format string, args ...interface{}) {
		if o.verbose {
			logger.Printf(format, args...)
		}
	}

	// Read and merge all result files.
	master := new(fiotab.Table)
	files := fiofmt.Files{Dir: dir, GroupPrefix: o.groupPrefix}
	failed := 0
	for files.Scan() {
		tab, err := files.Result()
		if err != nil {
			err = fileError(files.Path(), err)
			if !o.keepGoing {
				return err
			}
			logger.Print(err)
			failed++
			continue
		}
		verbosef("%s: %s, %sk, %s: %d measurements", files.Path(), files.Meta().Operation, files.Meta().BlockSize, files.Meta().Format, tab.Len())
		printSummaries(verbosef, files.Summaries())
		master.Merge(tab)
	}
	if err := files.Err(); err != nil {
		return err
	}
	if master.Len() == 0 {
		if failed > 0 {
			return failedError(failed)
		}
		return fmt.Errorf("no fio results in %s", dir)
	}

	if o.dump {
		if err := master.Fprint(w); err != nil {
			return err
		}
	}
	if o.csv != "" {
		if err := writeCSV(w, o.csv, master); err != nil {
			return err
		}
	}
	if o.summary {
		if err := summarize(w, master); err != nil {
			return err
		}
	}

	if o.createImage || o.showPlot {
		fig, err := fiochart.Compose(master, splitList(o.operations))
		if err != nil {
			return err
		}
		out := o.output
		if !o.createImage {
			tmp, err := os.MkdirTemp("", "fioplot")
			if err != nil {
				return err
			}
			out = filepath.Join(tmp, filepath.Base(o.output))
		}
		if err := fig.Save(out); err != nil {
			return err
		}
		verbosef("wrote %s", out)
		if o.showPlot {
			if err := showImage(out); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return failedError(failed)
	}
	return nil
}

func failedError(n int) error {
	if n == 1 {
		return errors.New("1 result file could not be parsed")
	}
	return fmt.Errorf("%d result files could not be parsed", n)
}

// fileError adds path to err if err does not already name the file.
func fileError(path string, err error) error {
	var (
		se *fiofmt.SyntaxError
		ve *fiofmt.ValidationError
		ke *fiofmt.KeyError
		pe *os.PathError
	)
	if errors.As(err, &se) || errors.As(err, &ve) || errors.As(err, &ke) || errors.As(err, &pe) {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

func printSummaries(verbosef func(string, ...interface{}), sum map[int][]string) {
	ids := make([]int, 0, len(sum))
	for id := range sum {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		for _, line := range sum[id] {
			verbosef("  group %d: %s", id, line)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func writeCSV(w io.Writer, path string, t *fiotab.Table) (err error) {
	if path == "-" {
		return t.WriteCSV(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return t.WriteCSV(f)
}

// summarize writes the range of every metric, by operation and block
// size.
func summarize(w io.Writer, t *fiotab.Table) error {
	var tab texttab.Table
	tab.Row().Cell("operation").Cell("metric").Cell("bs", texttab.Right).
		Cell("min", texttab.Right).Cell("max", texttab.Right).Cell("unit")
	for _, op := range t.Operations() {
		opt, err := t.FilterBy(fiotab.Operation, op)
		if err != nil {
			return err
		}
		for _, metric := range opt.Metrics(false) {
			mt, err := opt.FilterBy(fiotab.Metric, metric)
			if err != nil {
				return err
			}
			for _, bs := range mt.BlockSizes() {
				bt, err := mt.FilterBy(fiotab.BlockSize, bs)
				if err != nil {
					return err
				}
				lo, hi := bt.Bounds(metric)
				tab.Row().Cell(op).Cell(metric).Cell(fmt.Sprint(bs), texttab.Right).
					Cell(fmt.Sprintf("%.6g", lo), texttab.Right).
					Cell(fmt.Sprintf("%.6g", hi), texttab.Right).
					Cell(fiounit.KindOf(metric).Unit())
			}
		}
	}
	return tab.Format(w)
}
