// Package chart renders line and bar charts for price and dividend series.
// Rendering is delegated to go-echarts; this package only shapes series,
// styles and themes, and nothing here is consumed back by the core.
package chart

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
)

// LineStyle is the fixed set of supported line stylings. There is no
// candlestick variant.
type LineStyle string

const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
	Dotted LineStyle = "dotted"
)

// Line is one named series to draw.
type Line struct {
	Name   string
	Series timeseries.Series
}

// LineOptions style a multi-line plot. Shorter lists cycle over the series;
// empty lists fall back to theme palette, width 1 and solid lines.
type LineOptions struct {
	Title  string
	Widths []float32
	Styles []LineStyle
	Colors []string
}

const dayLabel = "2006-01-02"

// LinePlot draws a single price series, green when the last value is above
// the first, red otherwise, titled with the overall performance.
func LinePlot(w io.Writer, name string, series timeseries.Series, theme Theme) error {
	variation, err := seriesVariation(series)
	if err != nil {
		return err
	}

	color := theme.Green
	if variation.IsNegative() {
		color = theme.Red
	}
	title := fmt.Sprintf("%s (%s%%)", name, variation.Mul(decimal.New(100, 0)).StringFixed(2))

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{BackgroundColor: theme.Background, PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, TitleStyle: &opts.TextStyle{Color: color}}),
	)

	labels, data := seriesData(series)
	line.SetXAxis(labels)
	line.AddSeries(name, data, charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 3, Type: string(Solid)}))

	return line.Render(w)
}

// MultiLinePlot draws several named series on a shared time axis.
func MultiLinePlot(w io.Writer, lines []Line, options LineOptions, theme Theme) error {
	if len(lines) == 0 {
		return timeseries.ErrEmpty
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{BackgroundColor: theme.Background, PageTitle: options.Title}),
		charts.WithTitleOpts(opts.Title{Title: options.Title, TitleStyle: &opts.TextStyle{Color: theme.Text}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: theme.Text}}),
	)

	axis := unionTimes(lines)
	labels := make([]string, 0, len(axis))
	for _, t := range axis {
		labels = append(labels, t.Format(dayLabel))
	}
	line.SetXAxis(labels)

	for i, l := range lines {
		data := make([]opts.LineData, 0, len(axis))
		for _, t := range axis {
			if v, ok := l.Series.Get(t); ok && v.Valid {
				data = append(data, opts.LineData{Value: v.Decimal.InexactFloat64()})
			} else {
				data = append(data, opts.LineData{Value: nil})
			}
		}
		line.AddSeries(l.Name, data, charts.WithLineStyleOpts(opts.LineStyle{
			Color: cycleAt(options.Colors, i, theme.Palette[i%len(theme.Palette)]),
			Width: cycleAt(options.Widths, i, 1),
			Type:  string(cycleAt(options.Styles, i, Solid)),
		}))
	}

	return line.Render(w)
}

// DividendsPlot draws a dividend series as month-labelled bars.
func DividendsPlot(w io.Writer, name string, series timeseries.Series, theme Theme) error {
	if series.Len() == 0 {
		return timeseries.ErrEmpty
	}

	title := fmt.Sprintf("%s dividends", name)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{BackgroundColor: theme.Background, PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, TitleStyle: &opts.TextStyle{Color: theme.Green}}),
	)

	labels := make([]string, 0, series.Len())
	data := make([]opts.BarData, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		t, v := series.At(i)
		labels = append(labels, t.Format("2006-01"))
		if v.Valid {
			data = append(data, opts.BarData{Value: v.Decimal.InexactFloat64()})
		} else {
			data = append(data, opts.BarData{Value: nil})
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries(name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: theme.Green}))

	return bar.Render(w)
}

func seriesVariation(series timeseries.Series) (decimal.Decimal, error) {
	_, first, err := series.First()
	if err != nil {
		return decimal.Decimal{}, err
	}
	_, last, err := series.Last()
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !first.Valid || !last.Valid {
		return decimal.Decimal{}, timeseries.ErrMissingBaseline
	}
	if first.Decimal.IsZero() {
		return decimal.Decimal{}, timeseries.ErrZeroBaseline
	}
	return last.Decimal.Sub(first.Decimal).Div(first.Decimal), nil
}

func seriesData(series timeseries.Series) ([]string, []opts.LineData) {
	labels := make([]string, 0, series.Len())
	data := make([]opts.LineData, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		t, v := series.At(i)
		labels = append(labels, t.Format(dayLabel))
		if v.Valid {
			data = append(data, opts.LineData{Value: v.Decimal.InexactFloat64()})
		} else {
			data = append(data, opts.LineData{Value: nil})
		}
	}
	return labels, data
}

func unionTimes(lines []Line) []time.Time {
	seen := make(map[time.Time]struct{})
	var axis []time.Time
	for _, l := range lines {
		for _, t := range l.Series.Times() {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				axis = append(axis, t)
			}
		}
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	return axis
}

func cycleAt[T any](list []T, i int, def T) T {
	if len(list) == 0 {
		return def
	}
	return list[i%len(list)]
}
