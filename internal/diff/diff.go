// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares text for tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Diff returns a human-readable description of the differences
// between want and got, or "" if they are equal. If the "diff" command
// is available, the description is a unified diff.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant: %q\ngot:  %q", want, got)
	}

	var names [2]string
	for i, s := range []string{want, got} {
		f, err := os.CreateTemp("", "fioplot_test")
		if err != nil {
			return err.Error()
		}
		defer os.Remove(f.Name())
		_, err = f.WriteString(s)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err.Error()
		}
		names[i] = f.Name()
	}

	data, err := exec.Command(cmd, "-u", names[0], names[1]).CombinedOutput()
	if len(data) > 0 {
		// diff exits with status 1 when the files differ.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("texts differ but diff found no difference\nwant: %q\ngot:  %q", want, got)
}
