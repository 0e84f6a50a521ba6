package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
)

func seriesOf(values ...string) timeseries.Series {
	var s timeseries.Series
	for i, v := range values {
		at := time.Date(2025, time.January, i+1, 0, 0, 0, 0, time.UTC)
		if v == "" {
			s.AppendMissing(at)
		} else {
			s.AppendValue(at, decimal.RequireFromString(v))
		}
	}
	return s
}

func TestLinePlotTitleAndColor(t *testing.T) {
	var buf bytes.Buffer

	err := LinePlot(&buf, "PETR4", seriesOf("10", "12", "9"), Default())
	if err != nil {
		t.Fatalf("LinePlot() err = %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "PETR4 (-10.00%)") {
		t.Error("rendered chart misses the performance title")
	}
	if !strings.Contains(html, Default().Red) {
		t.Error("negative variation not drawn with the red color")
	}
}

func TestLinePlotPositiveUsesGreen(t *testing.T) {
	var buf bytes.Buffer

	if err := LinePlot(&buf, "VALE3", seriesOf("10", "11"), Default()); err != nil {
		t.Fatalf("LinePlot() err = %v", err)
	}
	if !strings.Contains(buf.String(), Default().Green) {
		t.Error("positive variation not drawn with the green color")
	}
}

func TestLinePlotErrors(t *testing.T) {
	var buf bytes.Buffer

	if err := LinePlot(&buf, "X", timeseries.Series{}, Default()); !errors.Is(err, timeseries.ErrEmpty) {
		t.Errorf("empty: err = %v, want ErrEmpty", err)
	}
	if err := LinePlot(&buf, "X", seriesOf("0", "1"), Default()); !errors.Is(err, timeseries.ErrZeroBaseline) {
		t.Errorf("zero baseline: err = %v, want ErrZeroBaseline", err)
	}
}

func TestMultiLinePlot(t *testing.T) {
	var buf bytes.Buffer
	lines := []Line{
		{Name: "PETR4", Series: seriesOf("1", "1.1")},
		{Name: "VALE3", Series: seriesOf("1", "", "1.3")},
	}
	options := LineOptions{
		Title:  "Comparison",
		Widths: []float32{1, 3},
		Styles: []LineStyle{Dashed, Solid},
	}

	if err := MultiLinePlot(&buf, lines, options, OneDark()); err != nil {
		t.Fatalf("MultiLinePlot() err = %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Comparison", "PETR4", "VALE3", OneDark().Background} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered chart misses %q", want)
		}
	}
}

func TestMultiLinePlotEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := MultiLinePlot(&buf, nil, LineOptions{}, Default()); !errors.Is(err, timeseries.ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestDividendsPlot(t *testing.T) {
	var s timeseries.Series
	s.AppendValue(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("0.8"))
	s.AppendValue(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("1"))

	var buf bytes.Buffer
	if err := DividendsPlot(&buf, "HGLG11", s, Default()); err != nil {
		t.Fatalf("DividendsPlot() err = %v", err)
	}

	html := buf.String()
	for _, want := range []string{"HGLG11 dividends", "2025-01", "2025-03"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered chart misses %q", want)
		}
	}
}

func TestDividendsPlotEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := DividendsPlot(&buf, "X", timeseries.Series{}, Default()); !errors.Is(err, timeseries.ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestByName(t *testing.T) {
	theme, err := ByName("onedark")
	if err != nil {
		t.Fatalf("ByName(onedark) err = %v", err)
	}
	if theme.Background != OneDark().Background {
		t.Errorf("Background = %q, want %q", theme.Background, OneDark().Background)
	}

	if _, err := ByName("nope"); err == nil {
		t.Error("ByName(nope) err = nil, want error")
	}
}

func TestCycleAt(t *testing.T) {
	styles := []LineStyle{Dashed, Dotted}

	if got := cycleAt(styles, 3, Solid); got != Dotted {
		t.Errorf("cycleAt(3) = %v, want Dotted", got)
	}
	if got := cycleAt(nil, 0, Solid); got != Solid {
		t.Errorf("cycleAt(empty) = %v, want Solid", got)
	}
}
