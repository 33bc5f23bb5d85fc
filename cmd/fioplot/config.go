// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ini "github.com/lars-t-hansen/ini"
)

// configKeys maps keys of the [fioplot] section of a defaults file to
// the flags they set.
var configKeys = []struct {
	key, flag string
}{
	{"group-prefix-name", "group-prefix-name"},
	{"create-image", "create-image"},
	{"show-plot", "show-plot"},
	{"output", "o"},
	{"operations", "ops"},
}

func defaultConfig() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(filepath.Clean(home), ".fioplot")
}

// loadConfig applies the defaults in the INI file at path to the flags
// in fs that were not set on the command line. A missing file is not
// an error unless it was named with -config.
func loadConfig(fs *flag.FlagSet, path string) error {
	if path == "" {
		return nil
	}
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	input, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit["config"] {
			return nil
		}
		return err
	}
	defer input.Close()

	p := ini.NewParser()
	sec := p.AddSection("fioplot")
	fields := make([]*ini.Field, len(configKeys))
	for i, k := range configKeys {
		fields[i] = sec.AddString(k.key)
	}
	store, err := p.Parse(input)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for i, k := range configKeys {
		if explicit[k.flag] || !fields[i].Present(store) {
			continue
		}
		val := os.ExpandEnv(fields[i].StringVal(store))
		if err := fs.Set(k.flag, val); err != nil {
			return fmt.Errorf("%s: %s: %w", path, k.key, err)
		}
	}
	return nil
}
