// Package portfolio models priced instruments and weighted groups of them.
// Everything here is immutable after construction: views either derive from
// the table fetched at construction time, or take an explicit provider and
// fetch parameters and recompute from scratch. Errors surface to the caller,
// nothing is logged or retried at this level.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
)

// HistoryProvider fetches the price history table for one ticker. The
// returned table rows are ordered ascending by time.
type HistoryProvider interface {
	History(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error)
}

// Holding is a single priced instrument tracked by ticker code, with the
// amount invested in it and the history table fetched when it was built.
type Holding struct {
	ticker  string
	value   decimal.Decimal
	history timeseries.Table
}

// NewHolding builds a holding around an already fetched history table. The
// ticker is normalized to upper case. The table must have at least one row
// and the invested value must be non-negative.
func NewHolding(ticker string, value decimal.Decimal, history timeseries.Table) (*Holding, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker code")
	}
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}
	if history.Len() == 0 {
		return nil, fmt.Errorf("holding %s: %w", ticker, timeseries.ErrEmpty)
	}
	return &Holding{ticker: ticker, value: value, history: history}, nil
}

// FetchHolding fetches the ticker's history and builds the holding from it.
// Re-fetching means building a new holding.
func FetchHolding(ctx context.Context, provider HistoryProvider, ticker string, value decimal.Decimal, params model.FetchParams) (*Holding, error) {
	history, err := provider.History(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	return NewHolding(ticker, value, history)
}

// Ticker returns the upper-cased ticker code.
func (h *Holding) Ticker() string { return h.ticker }

// Name returns the display name, which for a holding is its ticker.
func (h *Holding) Name() string { return h.ticker }

// Value returns the invested value.
func (h *Holding) Value() decimal.Decimal { return h.value }

// HistoryTable returns the table fetched at construction time.
func (h *Holding) HistoryTable() timeseries.Table { return h.history }

// NormalizedHistoryTable returns the history divided row-wise by its first
// row, so every column starts at 1.
func (h *Holding) NormalizedHistoryTable() (timeseries.Table, error) {
	return h.history.NormalizeByFirstRow()
}

// CloseSeries returns the close-price column of the history.
func (h *Holding) CloseSeries() timeseries.Series {
	return h.history.Column(timeseries.FieldClose)
}

// NormalizedCloseSeries returns the close column divided by its first value.
// It fails with timeseries.ErrZeroBaseline when the first close is zero.
func (h *Holding) NormalizedCloseSeries() (timeseries.Series, error) {
	return h.CloseSeries().Normalize()
}

// Valorization returns the relative price change over the holding's own
// window: (last - first) / first.
func (h *Holding) Valorization() (decimal.Decimal, error) {
	norm, err := h.NormalizedCloseSeries()
	if err != nil {
		return decimal.Decimal{}, err
	}
	_, last, err := norm.Last()
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !last.Valid {
		return decimal.Decimal{}, timeseries.ErrMissingBaseline
	}
	return last.Decimal.Sub(decimal.New(1, 0)), nil
}

// PeriodValorization fetches the given period and returns the relative price
// change over it. Multiplied by 100 it reads as a percentage.
func (h *Holding) PeriodValorization(ctx context.Context, provider HistoryProvider, period string) (decimal.Decimal, error) {
	fresh, err := FetchHolding(ctx, provider, h.ticker, h.value, model.FetchParams{Period: period})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return fresh.Valorization()
}

// DividendsSeries returns the raw dividend amounts per time point.
func (h *Holding) DividendsSeries() timeseries.Series {
	return h.history.Column(timeseries.FieldDividends)
}

// MonthlyDividendsSeries sums the dividend events into calendar-month
// buckets, keyed by the first day of each month. Months with no dividend
// events are absent.
func (h *Holding) MonthlyDividendsSeries() timeseries.Series {
	return h.DividendsSeries().NonZero().MonthlyBuckets()
}

// TotalDividends returns the sum of dividends over the holding's own window.
func (h *Holding) TotalDividends() decimal.Decimal {
	return h.DividendsSeries().Sum()
}

// PeriodDividends fetches the given period and returns the dividend total
// over it.
func (h *Holding) PeriodDividends(ctx context.Context, provider HistoryProvider, period string) (decimal.Decimal, error) {
	history, err := provider.History(ctx, h.ticker, model.FetchParams{Period: period})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return history.Column(timeseries.FieldDividends).Sum(), nil
}

// Interval returns the first and last timestamps of the holding's window.
func (h *Holding) Interval() (start, end time.Time, err error) {
	return h.history.Interval()
}
