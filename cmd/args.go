package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
)

// parsePositions parses TICKER[:VALUE] arguments. The invested value
// defaults to 1, so bare tickers build an equal-weighted portfolio.
func parsePositions(args []string) ([]portfolioService.Position, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one TICKER[:VALUE] argument is required")
	}

	positions := make([]portfolioService.Position, 0, len(args))
	for _, arg := range args {
		ticker, rawValue, found := strings.Cut(arg, ":")
		value := decimal.New(1, 0)
		if found {
			var err error
			value, err = decimal.NewFromString(rawValue)
			if err != nil {
				return nil, fmt.Errorf("invalid value in %q: %w", arg, err)
			}
		}
		positions = append(positions, portfolioService.Position{Ticker: ticker, Value: value})
	}
	return positions, nil
}

// fetchFlags groups the history-window flags shared by most commands.
type fetchFlags struct {
	period   string
	interval string
	start    string
	end      string
}

func (ff *fetchFlags) register(f *flag.FlagSet) {
	f.StringVar(&ff.period, "period", "1y", "history window, e.g. 1mo, 6mo, 1y, max")
	f.StringVar(&ff.interval, "interval", "", "sampling interval, e.g. 1d, 1wk, 1mo")
	f.StringVar(&ff.start, "start", "", "window start date (YYYY-MM-DD), overrides -period")
	f.StringVar(&ff.end, "end", "", "window end date (YYYY-MM-DD)")
}

func (ff *fetchFlags) params() (model.FetchParams, error) {
	params := model.FetchParams{Period: ff.period, Interval: ff.interval}
	if ff.start != "" {
		start, err := time.Parse("2006-01-02", ff.start)
		if err != nil {
			return model.FetchParams{}, fmt.Errorf("invalid -start: %w", err)
		}
		params.Start = start
	}
	if ff.end != "" {
		end, err := time.Parse("2006-01-02", ff.end)
		if err != nil {
			return model.FetchParams{}, fmt.Errorf("invalid -end: %w", err)
		}
		params.End = end
	}
	return params, nil
}

func printSeries(w io.Writer, series timeseries.Series) {
	for i := 0; i < series.Len(); i++ {
		t, v := series.At(i)
		if v.Valid {
			fmt.Fprintf(w, "%s\t%s\n", t.Format("2006-01-02"), v.Decimal.StringFixed(4))
		} else {
			fmt.Fprintf(w, "%s\t-\n", t.Format("2006-01-02"))
		}
	}
}
