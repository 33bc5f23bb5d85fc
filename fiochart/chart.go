// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiochart draws fio measurements as line charts.
//
// A Figure has one column, or panel, per operation. Each panel stacks
// one plot per metric, with threads on the x axis and one line per
// block size.
package fiochart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"golang.org/x/fioplot/fiotab"
	"golang.org/x/fioplot/fiounit"
)

// Default figure geometry.
const (
	DefaultWidth  = 16 * vg.Inch
	DefaultHeight = 12 * vg.Inch
	DefaultDPI    = 100
)

// ErrNoOperations is returned by Compose when none of the requested
// operations appear in the table.
var ErrNoOperations = errors.New("no requested operation has results")

// A Figure is a composed chart, ready to draw.
type Figure struct {
	Panels []*Panel

	// Width and Height give the size of the image written by
	// WriteTo and Save. DPI is the resolution of raster formats.
	Width, Height vg.Length
	DPI           int
}

// A Panel is the column of plots for one operation.
type Panel struct {
	Operation string
	Metrics   []string     // sorted
	Plots     []*plot.Plot // parallel to Metrics
}

// Compose builds a Figure from t for each of operations that appears
// in t. Panels are in sorted order of operation.
func Compose(t *fiotab.Table, operations []string) (*Figure, error) {
	want := make(map[string]bool)
	for _, op := range operations {
		want[op] = true
	}
	var ops []string
	for _, op := range t.Operations() {
		if want[op] {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("fiochart: %w (requested %s, have %s)", ErrNoOperations,
			strings.Join(operations, ","), strings.Join(t.Operations(), ","))
	}

	f := &Figure{Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI}
	for _, op := range ops {
		p, err := composePanel(t, op)
		if err != nil {
			return nil, err
		}
		f.Panels = append(f.Panels, p)
	}
	return f, nil
}

func composePanel(t *fiotab.Table, op string) (*Panel, error) {
	opt, err := t.FilterBy(fiotab.Operation, op)
	if err != nil {
		return nil, err
	}
	threads := opt.Threads()
	ticks := make([]plot.Tick, len(threads))
	for i, th := range threads {
		ticks[i] = plot.Tick{Value: float64(th), Label: fmt.Sprint(th)}
	}

	panel := &Panel{Operation: op, Metrics: opt.Metrics(true)}
	for _, metric := range panel.Metrics {
		mt, err := opt.FilterBy(fiotab.Metric, metric)
		if err != nil {
			return nil, err
		}
		pl, err := metricPlot(mt, metric)
		if err != nil {
			return nil, err
		}
		pl.X.Tick.Marker = plot.ConstantTicks(ticks)
		// Plots in a panel share an x range, padded on the right
		// to leave the legend clear of the last points.
		pl.X.Min, pl.X.Max = xRange(threads)
		panel.Plots = append(panel.Plots, pl)
	}
	return panel, nil
}

// legendPad is the fraction of the thread range added after the
// largest thread count.
const legendPad = 0.25

func xRange(threads []int) (min, max float64) {
	min, max = float64(threads[0]), float64(threads[len(threads)-1])
	pad := legendPad * (max - min)
	if pad == 0 {
		pad = 1
	}
	return min, max + pad
}

// metricPlot plots the rows of t, which all have the given metric,
// with one line per block size.
func metricPlot(t *fiotab.Table, metric string) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = metric
	pl.X.Label.Text = "threads"
	pl.Y.Label.Text = fiounit.AxisLabel(metric)
	pl.Y.Tick.Marker = siTicks{}
	pl.Legend.Top = true
	pl.Legend.XOffs = -vg.Millimeter * 2
	pl.Legend.YOffs = -vg.Millimeter * 2

	for i, bs := range t.BlockSizes() {
		bt, err := t.FilterBy(fiotab.BlockSize, bs)
		if err != nil {
			return nil, err
		}
		rows := bt.Rows()
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Threads < rows[j].Threads })
		xys := make(plotter.XYs, len(rows))
		for j, row := range rows {
			xys[j].X = float64(row.Threads)
			xys[j].Y = row.Value
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("fiochart: %s, bs %dk: %w", metric, bs, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		pl.Add(line, points)
		pl.Legend.Add(fmt.Sprintf("bs: %dk", bs), line, points)
	}
	return pl, nil
}

// siTicks labels the default tick marks with a decimal multiple
// (k, M, G, T) common to the axis. Values below the unit are labeled
// as plain decimals.
type siTicks struct{}

func (siTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	var major []float64
	for _, t := range ticks {
		if t.Label != "" {
			major = append(major, t.Value)
		}
	}
	s := fiounit.CommonScale(major)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.4g%s", ticks[i].Value/s.Factor, s.Prefix)
		}
	}
	return ticks
}

// Draw draws f onto dc.
func (f *Figure) Draw(dc draw.Canvas) {
	if len(f.Panels) == 0 {
		return
	}
	cols := draw.Tiles{
		Rows: 1,
		Cols: len(f.Panels),
		PadX: vg.Millimeter * 4,
	}
	for i, p := range f.Panels {
		p.draw(cols.At(dc, i, 0))
	}
}

func (p *Panel) draw(dc draw.Canvas) {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(14)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YTop
	dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y}, p.Operation)

	if len(p.Plots) == 0 {
		return
	}
	body := draw.Crop(dc, 0, 0, 0, -sty.Height(p.Operation)-vg.Millimeter*2)
	rows := make([][]*plot.Plot, len(p.Plots))
	for i, pl := range p.Plots {
		rows[i] = []*plot.Plot{pl}
	}
	tiles := draw.Tiles{
		Rows: len(rows),
		Cols: 1,
		PadY: vg.Millimeter * 3,
	}
	canvases := plot.Align(rows, tiles, body)
	for i, pl := range p.Plots {
		pl.Draw(canvases[i][0])
	}
}

// Formats lists the image formats accepted by WriteTo.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf"}

func supported(format string) bool {
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// WriteTo draws f in the named image format and writes it to w.
func (f *Figure) WriteTo(w io.Writer, format string) error {
	c, err := f.canvas(format)
	if err != nil {
		return err
	}
	dc := draw.New(c)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())
	f.Draw(dc)
	_, err = c.WriteTo(w)
	return err
}

func (f *Figure) canvas(format string) (vg.CanvasWriterTo, error) {
	img := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(f.Width, f.Height),
			vgimg.UseDPI(f.DPI), vgimg.UseBackgroundColor(color.White))
	}
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: img()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: img()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: img()}, nil
	case "svg":
		return vgsvg.New(f.Width, f.Height), nil
	case "pdf":
		return vgpdf.New(f.Width, f.Height), nil
	}
	return nil, fmt.Errorf("fiochart: unsupported image format %q", format)
}

// Save writes f to the file at path, in the format given by the file
// name's extension.
func (f *Figure) Save(path string) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !supported(format) {
		return fmt.Errorf("fiochart: unsupported image format %q", format)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return f.WriteTo(out, format)
}
