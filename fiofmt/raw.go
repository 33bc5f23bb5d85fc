// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiofmt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/fioplot/fiotab"
	"golang.org/x/fioplot/fiounit"
)

// A RawReader parses fio's "normal" text output.
//
// fio reports each group of jobs in a block that starts with a header
// line such as
//
//	thread_8: (groupid=0, jobs=8): err= 0: pid=1234: ...
//
// and ends at the next blank line. The number after the group prefix
// becomes the threads column of every row extracted from that block.
type RawReader struct {
	prefix string
	header *regexp.Regexp

	fileName string
	groups   []*rawGroup
	byID     map[int]*rawGroup
	gids     map[int]int // fio groupid -> group id
	summary  map[int][]string
}

type rawLine struct {
	n    int // 1-based line number
	text string
}

type rawGroup struct {
	id    int
	lines []rawLine
}

var runStatusRe = regexp.MustCompile(`^Run status group (\d+)`)

// NewRawReader returns a reader for group headers named with prefix,
// optionally followed by "s", then "_" and the group id.
func NewRawReader(prefix string) *RawReader {
	return &RawReader{
		prefix: prefix,
		header: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `s?_(\d+):\s+\(groupid=(\d+),.*\)`),
	}
}

// Prefix returns the group prefix r was created with.
func (r *RawReader) Prefix() string {
	return r.prefix
}

// Parse reads fio normal output from rd and returns its measurements
// tagged with m's operation and block size. fileName is used only in
// error messages.
//
// Parse resets any state left by a previous call.
func (r *RawReader) Parse(rd io.Reader, fileName string, m Meta) (*fiotab.Table, error) {
	r.fileName = fileName
	r.groups = nil
	r.byID = make(map[int]*rawGroup)
	r.gids = make(map[int]int)
	r.summary = make(map[int][]string)

	var lines []rawLine
	s := bufio.NewScanner(rd)
	s.Buffer(nil, 1<<20)
	for n := 1; s.Scan(); n++ {
		lines = append(lines, rawLine{n, s.Text()})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if err := r.split(lines); err != nil {
		return nil, err
	}
	r.runStatus(lines)

	t := new(fiotab.Table)
	for _, g := range r.groups {
		vals, err := r.extract(g.lines)
		if err != nil {
			return nil, err
		}
		for _, mv := range vals {
			if err := t.Append(g.id, m.Operation, m.BlockSize, mv.metric, mv.value); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Groups returns the ids of the groups found by the last Parse, in the
// order they first appeared.
func (r *RawReader) Groups() []int {
	ids := make([]int, len(r.groups))
	for i, g := range r.groups {
		ids[i] = g.id
	}
	return ids
}

// Summaries returns the "Run status" lines of the last Parse, keyed by
// group id. Run status blocks whose fio groupid was not seen in any
// group header are dropped.
func (r *RawReader) Summaries() map[int][]string {
	return r.summary
}

func (r *RawReader) syntaxError(line int, format string, args ...interface{}) error {
	return &SyntaxError{r.fileName, line, fmt.Sprintf(format, args...)}
}

type splitState int

const (
	seekHeader splitState = iota
	inGroup
)

// split divides lines into per-group blocks. A header line starts a
// block, which runs until the next blank line. A repeated group id
// discards the earlier block for that id.
func (r *RawReader) split(lines []rawLine) error {
	state := seekHeader
	var cur *rawGroup
	for _, l := range lines {
		if m := r.header.FindStringSubmatch(l.text); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return r.syntaxError(l.n, "invalid group id %q", m[1])
			}
			gid, err := strconv.Atoi(m[2])
			if err != nil {
				return r.syntaxError(l.n, "invalid groupid %q", m[2])
			}
			r.gids[gid] = id
			if g, ok := r.byID[id]; ok {
				g.lines = g.lines[:0]
				cur = g
			} else {
				cur = &rawGroup{id: id}
				r.byID[id] = cur
				r.groups = append(r.groups, cur)
			}
			cur.lines = append(cur.lines, l)
			state = inGroup
			continue
		}
		if strings.TrimSpace(l.text) == "" {
			state = seekHeader
			continue
		}
		if state == inGroup {
			cur.lines = append(cur.lines, l)
		}
	}
	return nil
}

// runStatus collects the lines following each "Run status group N"
// heading up to the next blank line.
func (r *RawReader) runStatus(lines []rawLine) {
	collecting := false
	id := 0
	for _, l := range lines {
		if m := runStatusRe.FindStringSubmatch(l.text); m != nil {
			gid, err := strconv.Atoi(m[1])
			id, collecting = r.gids[gid]
			if err != nil {
				collecting = false
			}
			continue
		}
		if strings.TrimSpace(l.text) == "" {
			collecting = false
			continue
		}
		if collecting {
			r.summary[id] = append(r.summary[id], strings.TrimSpace(l.text))
		}
	}
}

type metricValue struct {
	metric string
	value  float64
}

type extractState int

const (
	seekStart extractState = iota
	scanning
	done
)

// Metric names produced by RawReader, in emission order.
var rawMetrics = []string{"read_iop", "read_bw", "read_lat", "write_iop", "write_bw", "write_lat"}

// extract pulls the read and write metrics out of one group block.
func (r *RawReader) extract(lines []rawLine) ([]metricValue, error) {
	state := scanning
	for _, l := range lines {
		if strings.Contains(l.text, "All clients:") {
			state = seekStart
			break
		}
	}

	vals := make(map[string]float64)
	have := func(name string) bool {
		_, ok := vals[name]
		return ok
	}
	for _, l := range lines {
		if state == done {
			break
		}
		if state == seekStart {
			if !strings.Contains(l.text, "All clients:") {
				continue
			}
			state = scanning
		}

		line := strings.TrimSpace(l.text)
		for _, dir := range []string{"read", "write"} {
			if strings.Contains(line, dir+": IOP") && !have(dir+"_iop") {
				iops, bw, err := r.ioLine(l.n, line)
				if err != nil {
					return nil, err
				}
				vals[dir+"_iop"] = iops
				vals[dir+"_bw"] = bw
			}
		}
		if strings.HasPrefix(line, "lat") {
			// Each direction takes the first lat line after its
			// IOPS line, so one line may fill both.
			for _, dir := range []string{"read", "write"} {
				if have(dir+"_iop") && !have(dir+"_lat") {
					lat, err := r.latLine(l.n, line)
					if err != nil {
						return nil, err
					}
					vals[dir+"_lat"] = lat
				}
			}
		}
		if strings.Contains(line, "IO depths") {
			state = done
		}
	}

	var out []metricValue
	for _, name := range rawMetrics {
		if v, ok := vals[name]; ok {
			out = append(out, metricValue{name, v})
		}
	}
	return out, nil
}

// ioLine parses a direction line such as
//
//	read: IOPS=22.0k, BW=86.1MiB/s (90.3MB/s)(5167MiB/60001msec)
//
// returning IOPS and bandwidth in MB/s.
func (r *RawReader) ioLine(n int, line string) (iops, bw float64, err error) {
	fields := strings.Split(line, ",")
	_, v, ok := strings.Cut(fields[0], "=")
	if !ok {
		return 0, 0, r.syntaxError(n, "missing IOPS value")
	}
	iops, err = fiounit.ParseIOPS(strings.TrimSpace(v))
	if err != nil {
		return 0, 0, r.syntaxError(n, "%v", err)
	}
	if len(fields) < 2 {
		return 0, 0, r.syntaxError(n, "missing bandwidth")
	}
	tok := strings.Fields(fields[1])
	if len(tok) == 0 {
		return 0, 0, r.syntaxError(n, "missing bandwidth")
	}
	_, v, ok = strings.Cut(tok[0], "=")
	if !ok {
		return 0, 0, r.syntaxError(n, "missing bandwidth value")
	}
	bw, err = fiounit.ParseBandwidth(v)
	if err != nil {
		return 0, 0, r.syntaxError(n, "%v", err)
	}
	return iops, bw, nil
}

// latLine parses a total latency line such as
//
//	lat (usec): min=52, max=9124, avg=1452.51, stdev=310.52
//
// returning the average in milliseconds.
func (r *RawReader) latLine(n int, line string) (float64, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return 0, r.syntaxError(n, "missing average latency")
	}
	_, v, ok := strings.Cut(fields[2], "=")
	if !ok {
		return 0, r.syntaxError(n, "missing average latency value")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, r.syntaxError(n, "invalid latency %q", strings.TrimSpace(v))
	}
	var unit byte
	if len(line) > 5 {
		unit = line[5]
	}
	return fiounit.Millis(lat, unit), nil
}
