// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/fioplot/fiofmt"
	"golang.org/x/fioplot/internal/diff"
)

// run runs fioplot with a clean defaults file setting.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var w, wErr bytes.Buffer
	t.Logf("fioplot %s", strings.Join(args, " "))
	err = fioplot(&w, &wErr, append([]string{"-config="}, args...))
	return w.String(), wErr.String(), err
}

func golden(t *testing.T, name, got string) {
	t.Helper()
	want, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	if d := diff.Diff(string(want), got); d != "" {
		t.Errorf("%s mismatch:\n%s", name, d)
	}
}

func TestCSV(t *testing.T) {
	stdout, _, err := run(t, "-create-image=false", "-csv", "-", "testdata/results")
	if err != nil {
		t.Fatal(err)
	}
	golden(t, "csv.stdout", stdout)
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	stdout, _, err := run(t, "-create-image=false", "-csv", path, "testdata/results")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	golden(t, "csv.stdout", string(got))
}

func TestSummary(t *testing.T) {
	stdout, _, err := run(t, "-create-image=false", "-summary", "testdata/results")
	if err != nil {
		t.Fatal(err)
	}
	golden(t, "summary.stdout", stdout)
}

func TestDump(t *testing.T) {
	stdout, _, err := run(t, "-create-image=false", "-dump", "testdata/results")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"threads", "block_size", "read_lat", "write_iops"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dump missing %q:\n%s", want, stdout)
		}
	}
}

func TestVerbose(t *testing.T) {
	_, stderr, err := run(t, "-create-image=false", "-v", "testdata/results")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"randread.4k.result: randread, 4k, raw: 6 measurements",
		"read.8k.result.json: read, 8k, json: 6 measurements",
		"group 2: READ: bw=8MiB/s",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestImage(t *testing.T) {
	for _, ext := range []string{"png", "svg"} {
		out := filepath.Join(t.TempDir(), "plot."+ext)
		if _, _, err := run(t, "-o", out, "testdata/results"); err != nil {
			t.Fatal(err)
		}
		fi, err := os.Stat(out)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", out)
		}
	}
}

func TestShowPlot(t *testing.T) {
	var shown string
	defer func(f func(string) error) { showImage = f }(showImage)
	showImage = func(path string) error {
		shown = path
		return nil
	}

	out := filepath.Join(t.TempDir(), "plot.png")
	if _, _, err := run(t, "-create-image=false", "-show-plot", "-o", out, "testdata/results"); err != nil {
		t.Fatal(err)
	}
	if shown == "" || shown == out {
		t.Fatalf("showed %q, want a temporary file", shown)
	}
	defer os.RemoveAll(filepath.Dir(shown))
	if _, err := os.Stat(shown); err != nil {
		t.Errorf("shown image: %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("-create-image=false wrote %s", out)
	}
}

func TestNoOperations(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.png")
	_, _, err := run(t, "-ops", "trim", "-o", out, "testdata/results")
	if err == nil {
		t.Fatal("want error for operations with no results")
	}
}

func TestFailFast(t *testing.T) {
	stdout, _, err := run(t, "-create-image=false", "-csv", "-", "testdata/bad")
	var ve *fiofmt.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError for first bad file, got %v", err)
	}
	if stdout != "" {
		t.Errorf("wrote output before failing:\n%s", stdout)
	}
}

func TestKeepGoing(t *testing.T) {
	stdout, stderr, err := run(t, "-create-image=false", "-keep-going", "-csv", "-", "testdata/bad")
	if err == nil || err.Error() != "2 result files could not be parsed" {
		t.Fatalf("got error %v, want count of failed files", err)
	}
	for _, want := range []string{"randwrite.4k.result.json: wrong bs", "write.4k.result:2:"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	// The good file is still exported.
	if n := strings.Count(stdout, "\n"); n != 7 {
		t.Errorf("got %d CSV lines, want 7:\n%s", n, stdout)
	}
}

func TestEmptyDir(t *testing.T) {
	_, _, err := run(t, "-create-image=false", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no fio results") {
		t.Fatalf("got %v, want no results error", err)
	}
}

func TestMissingDir(t *testing.T) {
	_, _, err := run(t, "-create-image=false", filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want not exist", err)
	}
}

func TestUsage(t *testing.T) {
	_, stderr, err := run(t)
	if !errors.Is(err, errUsage) {
		t.Errorf("no arguments: got %v, want usage error", err)
	}
	if !strings.Contains(stderr, "Usage: fioplot") {
		t.Errorf("usage not printed:\n%s", stderr)
	}
	if _, _, err := run(t, "a", "b"); !errors.Is(err, errUsage) {
		t.Errorf("two arguments: got %v, want usage error", err)
	}
	if _, _, err := run(t, "-h"); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: got %v, want flag.ErrHelp", err)
	}

	// A bad flag is reported once, by the flag package.
	_, stderr, err = run(t, "-no-such-flag", "testdata/results")
	if !errors.Is(err, errUsage) {
		t.Errorf("bad flag: got %v, want usage error", err)
	}
	if n := strings.Count(stderr, "no-such-flag"); n != 1 {
		t.Errorf("bad flag reported %d times:\n%s", n, stderr)
	}
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "fromconfig.svg")
	cfg := filepath.Join(dir, "fioplot.ini")
	data := "[fioplot]\noutput = " + out + "\noperations = read\ncreate-image = true\n"
	if err := os.WriteFile(cfg, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}

	var w, wErr bytes.Buffer
	if err := fioplot(&w, &wErr, []string{"-config", cfg, "testdata/results"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("config output not written: %v", err)
	}

	// Flags win over the file.
	flagOut := filepath.Join(dir, "fromflag.png")
	if err := fioplot(&w, &wErr, []string{"-config", cfg, "-o", flagOut, "testdata/results"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(flagOut); err != nil {
		t.Errorf("flag output not written: %v", err)
	}

	// The file's operations apply.
	trim := filepath.Join(dir, "trim.ini")
	if err := os.WriteFile(trim, []byte("[fioplot]\noperations = trim\n"), 0666); err != nil {
		t.Fatal(err)
	}
	err := fioplot(&w, &wErr, []string{"-config", trim, "-o", filepath.Join(dir, "trim.png"), "testdata/results"})
	if err == nil || !strings.Contains(err.Error(), "trim") {
		t.Errorf("operations from config: got %v, want error naming trim", err)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	var w, wErr bytes.Buffer
	missing := filepath.Join(dir, "missing.ini")
	if err := fioplot(&w, &wErr, []string{"-config", missing, "-create-image=false", "testdata/results"}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("explicit missing config: got %v, want not exist", err)
	}

	bad := filepath.Join(dir, "bad.ini")
	if err := os.WriteFile(bad, []byte("[fioplot]\ncreate-image = maybe\n"), 0666); err != nil {
		t.Fatal(err)
	}
	err := fioplot(&w, &wErr, []string{"-config", bad, "testdata/results"})
	if err == nil || !strings.Contains(err.Error(), "create-image") {
		t.Errorf("bad bool in config: got %v", err)
	}
}
