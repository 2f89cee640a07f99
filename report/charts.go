package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func toBarItems[T number](vals []T) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	return bar
}

// HistogramChart plots the distribution of values with its summary in the
// subtitle.
func HistogramChart(title string, values []float64) *charts.Bar {
	st := Summarize(values)
	nbins := Bins(values)
	edges, counts := Histogram(values, nbins)
	labels := make([]string, nbins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f", 0.5*(edges[i]+edges[i+1]))
	}
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", st.Count, st.Mean, st.Std, st.Median, st.IQR)
	bar := newBar(title, subtitle)
	bar.SetGlobalOptions(charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}))
	bar.SetXAxis(labels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// Section is one named share of a blob.
type Section struct {
	Name  string
	Bytes float64
}

// Sections extracts the sections recorded under prefix (for example
// "codec/sparse_batch/") from a measure snapshot, averaged per blob and
// converted to bytes. The total and blob counters are left out.
func Sections(snap map[string]uint64, prefix string) []Section {
	blobs := snap[prefix+"blobs"]
	if blobs == 0 {
		blobs = 1
	}
	var out []Section
	for k, v := range snap {
		name, ok := strings.CutPrefix(k, prefix)
		if !ok || name == "blobs" || name == "total" {
			continue
		}
		out = append(out, Section{Name: name, Bytes: float64(v) / 8 / float64(blobs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SizeChart plots the average bytes per blob of every section recorded
// under prefix.
func SizeChart(title string, snap map[string]uint64, prefix string) *charts.Bar {
	secs := Sections(snap, prefix)
	labels := make([]string, len(secs))
	sizes := make([]float64, len(secs))
	for i, s := range secs {
		labels[i], sizes[i] = s.Name, s.Bytes
	}
	blobs := snap[prefix+"blobs"]
	var avg float64
	if blobs > 0 {
		avg = float64(snap[prefix+"total"]) / 8 / float64(blobs)
	}
	bar := newBar(title, fmt.Sprintf("blobs=%d, mean size=%.1f bytes", blobs, avg))
	bar.SetXAxis(labels).
		AddSeries("bytes", toBarItems(sizes)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return bar
}

// Render writes every chart to w as one HTML page.
func Render(w io.Writer, bars ...*charts.Bar) error {
	page := components.NewPage()
	for _, b := range bars {
		page.AddCharts(b)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
