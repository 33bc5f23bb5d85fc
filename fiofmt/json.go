// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiofmt

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"golang.org/x/fioplot/fiotab"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A JSONReader parses reports written by fio --output-format=json.
type JSONReader struct {
	jobName *regexp.Regexp
}

// NewJSONReader returns a reader that takes the threads column from
// job names of the form <prefix>_N or <prefix>s_N.
func NewJSONReader(prefix string) *JSONReader {
	return &JSONReader{
		jobName: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `s?_(\d+)`),
	}
}

// Parse reads a JSON report from rd and returns its per-job
// measurements tagged with m's operation and block size. The report's
// global rw and bs options must agree with m.
//
// Any text before the first '{' is skipped. fio writes warnings there
// when it runs with --output-format=json but no --output file.
func (r *JSONReader) Parse(rd io.Reader, fileName string, m Meta) (*fiotab.Table, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if i := bytes.IndexByte(data, '{'); i > 0 {
		data = data[i:]
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{FileName: fileName, Msg: err.Error()}
	}
	root := jsonObject{fileName, "", doc}

	opts, err := root.object("global options")
	if err != nil {
		return nil, err
	}
	rw, err := opts.stringOr("rw", "unknown")
	if err != nil {
		return nil, err
	}
	if rw != m.Operation {
		return nil, &ValidationError{fileName, "rw", rw, m.Operation}
	}
	bs, err := opts.stringOr("bs", "0")
	if err != nil {
		return nil, err
	}
	bs = strings.TrimSuffix(bs, "k")
	if bs != m.BlockSize {
		return nil, &ValidationError{fileName, "bs", bs, m.BlockSize}
	}

	jobs, err := root.array("jobs")
	if err != nil {
		return nil, err
	}
	t := new(fiotab.Table)
	for i := range jobs.a {
		job, err := jobs.object(i)
		if err != nil {
			return nil, err
		}
		name, err := job.str("jobname")
		if err != nil {
			return nil, err
		}
		threads := 0
		if sm := r.jobName.FindStringSubmatch(name); sm != nil {
			threads, err = strconv.Atoi(sm[1])
			if err != nil {
				return nil, &SyntaxError{FileName: fileName, Msg: fmt.Sprintf("%s.jobname: invalid group id %q", job.path, sm[1])}
			}
		}
		for _, dir := range []string{"write", "read"} {
			d, err := job.object(dir)
			if err != nil {
				return nil, err
			}
			iops, err := d.num("iops_mean")
			if err != nil {
				return nil, err
			}
			bw, err := d.num("bw")
			if err != nil {
				return nil, err
			}
			latNS, err := d.object("lat_ns")
			if err != nil {
				return nil, err
			}
			lat, err := latNS.num("mean")
			if err != nil {
				return nil, err
			}
			rows := []struct {
				metric string
				value  float64
			}{
				{dir + "_iops", iops},
				{dir + "_bw", bw / 1024},
				{dir + "_lat", lat / 1e6},
			}
			for _, row := range rows {
				if err := t.Append(threads, m.Operation, m.BlockSize, row.metric, row.value); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// A jsonObject is a decoded JSON object along with its path from the
// document root, for error messages.
type jsonObject struct {
	file string
	path string
	m    map[string]interface{}
}

type jsonArray struct {
	file string
	path string
	a    []interface{}
}

func (o jsonObject) key(k string) string {
	if o.path == "" {
		return k
	}
	return o.path + "." + k
}

func (o jsonObject) get(k string) (interface{}, error) {
	v, ok := o.m[k]
	if !ok {
		return nil, &KeyError{o.file, o.key(k)}
	}
	return v, nil
}

func (o jsonObject) typeError(path, want string, v interface{}) error {
	return &SyntaxError{FileName: o.file, Msg: fmt.Sprintf("%s: expected %s, got %s", path, want, jsonType(v))}
}

func (o jsonObject) object(k string) (jsonObject, error) {
	v, err := o.get(k)
	if err != nil {
		return jsonObject{}, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return jsonObject{}, o.typeError(o.key(k), "object", v)
	}
	return jsonObject{o.file, o.key(k), m}, nil
}

func (o jsonObject) array(k string) (jsonArray, error) {
	v, err := o.get(k)
	if err != nil {
		return jsonArray{}, err
	}
	a, ok := v.([]interface{})
	if !ok {
		return jsonArray{}, o.typeError(o.key(k), "array", v)
	}
	return jsonArray{o.file, o.key(k), a}, nil
}

func (o jsonObject) num(k string) (float64, error) {
	v, err := o.get(k)
	if err != nil {
		return 0, err
	}
	x, ok := v.(float64)
	if !ok {
		return 0, o.typeError(o.key(k), "number", v)
	}
	return x, nil
}

func (o jsonObject) str(k string) (string, error) {
	v, err := o.get(k)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", o.typeError(o.key(k), "string", v)
	}
	return s, nil
}

// stringOr is like str, but returns def if k is missing.
func (o jsonObject) stringOr(k, def string) (string, error) {
	if _, ok := o.m[k]; !ok {
		return def, nil
	}
	return o.str(k)
}

func (a jsonArray) object(i int) (jsonObject, error) {
	path := fmt.Sprintf("%s[%d]", a.path, i)
	m, ok := a.a[i].(map[string]interface{})
	if !ok {
		return jsonObject{}, &SyntaxError{FileName: a.file, Msg: fmt.Sprintf("%s: expected object, got %s", path, jsonType(a.a[i]))}
	}
	return jsonObject{a.file, path, m}, nil
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
