package portfolio

import (
	"context"
	"fmt"

	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

var one = decimal.New(1, 0)

// weightTolerance bounds the rounding drift allowed on the weight sum.
var weightTolerance = decimal.New(1, -3)

// Portfolio is an ordered list of holdings with a weight per holding derived
// from the invested values. Weights are computed once at construction and
// never mutated; changing the holding set means building a new portfolio.
type Portfolio struct {
	name     string
	holdings []*Holding
	weights  []decimal.Decimal
}

// Correlation is the Pearson correlation coefficient between the close
// series of two holdings, computed over their paired non-null observations.
type Correlation struct {
	A, B        *Holding
	Coefficient float64
}

// NamedSeries pairs a display name with a series, ready for rendering.
type NamedSeries struct {
	Name   string
	Series timeseries.Series
}

// NewPortfolio derives one weight per holding as its invested value divided
// by the total invested value. It fails with ErrWeights when the weights do
// not sum to 1 within tolerance, are negative, or do not match the holding
// count.
func NewPortfolio(name string, holdings []*Holding) (*Portfolio, error) {
	if name == "" {
		name = "Portfolio"
	}
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value())
	}
	if total.IsZero() {
		return nil, fmt.Errorf("total invested value is zero: %w", ErrWeights)
	}

	weights := make([]decimal.Decimal, 0, len(holdings))
	for _, h := range holdings {
		weights = append(weights, h.Value().Div(total))
	}

	if err := checkWeights(weights, len(holdings)); err != nil {
		return nil, err
	}

	p := &Portfolio{name: name, holdings: make([]*Holding, len(holdings)), weights: weights}
	copy(p.holdings, holdings)
	return p, nil
}

func checkWeights(weights []decimal.Decimal, holdings int) error {
	if len(weights) != holdings {
		return fmt.Errorf("%d weights for %d holdings: %w", len(weights), holdings, ErrWeights)
	}
	sum := decimal.Zero
	for _, w := range weights {
		if w.IsNegative() {
			return fmt.Errorf("negative weight %s: %w", w, ErrWeights)
		}
		sum = sum.Add(w)
	}
	if sum.Sub(one).Abs().GreaterThan(weightTolerance) {
		return fmt.Errorf("weights sum to %s: %w", sum, ErrWeights)
	}
	return nil
}

// Name returns the display name.
func (p *Portfolio) Name() string { return p.name }

// Holdings returns the holdings in their significant order.
func (p *Portfolio) Holdings() []*Holding {
	out := make([]*Holding, len(p.holdings))
	copy(out, p.holdings)
	return out
}

// Weights returns the weight vector, one entry per holding.
func (p *Portfolio) Weights() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.weights))
	copy(out, p.weights)
	return out
}

// Value returns the total invested value across holdings.
func (p *Portfolio) Value() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.holdings {
		total = total.Add(h.Value())
	}
	return total
}

// HistoryTable fetches every holding's history with the same parameters and
// blends them into one table: each holding's columns scaled by its weight and
// summed cell-wise over the union of time points, missing points counting as
// zero contribution. A single holding blends to its own unscaled table. The
// first fetch failure aborts the whole call.
func (p *Portfolio) HistoryTable(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Table, error) {
	var blended timeseries.Table
	for i, h := range p.holdings {
		history, err := provider.History(ctx, h.Ticker(), params)
		if err != nil {
			return timeseries.Table{}, err
		}
		scaled := history
		if !p.weights[i].Equal(one) {
			scaled = history.Scale(p.weights[i])
		}
		if i == 0 {
			blended = scaled
			continue
		}
		blended = blended.AddOuter(scaled)
	}
	return blended, nil
}

// NormalizedHistoryTable returns the blended table divided row-wise by its
// first row.
func (p *Portfolio) NormalizedHistoryTable(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Table, error) {
	history, err := p.HistoryTable(ctx, provider, params)
	if err != nil {
		return timeseries.Table{}, err
	}
	return history.NormalizeByFirstRow()
}

// CloseSeries returns the close column of the blended table.
func (p *Portfolio) CloseSeries(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Series, error) {
	history, err := p.HistoryTable(ctx, provider, params)
	if err != nil {
		return timeseries.Series{}, err
	}
	return history.Column(timeseries.FieldClose), nil
}

// NormalizedCloseSeries returns the blended close series divided by its
// first value.
func (p *Portfolio) NormalizedCloseSeries(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Series, error) {
	closes, err := p.CloseSeries(ctx, provider, params)
	if err != nil {
		return timeseries.Series{}, err
	}
	return closes.Normalize()
}

// PeriodValorization returns the relative change of the blended close series
// over the given period.
func (p *Portfolio) PeriodValorization(ctx context.Context, provider HistoryProvider, period string) (decimal.Decimal, error) {
	norm, err := p.NormalizedCloseSeries(ctx, provider, model.FetchParams{Period: period})
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
	return last.Decimal.Sub(one), nil
}

// DividendsSeries returns the dividends column of the blended table.
func (p *Portfolio) DividendsSeries(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Series, error) {
	history, err := p.HistoryTable(ctx, provider, params)
	if err != nil {
		return timeseries.Series{}, err
	}
	return history.Column(timeseries.FieldDividends), nil
}

// MonthlyDividendsSeries buckets the blended dividend events per calendar
// month. The sampling interval is dropped so buckets build from daily rows.
func (p *Portfolio) MonthlyDividendsSeries(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Series, error) {
	dividends, err := p.DividendsSeries(ctx, provider, params.WithoutInterval())
	if err != nil {
		return timeseries.Series{}, err
	}
	return dividends.NonZero().MonthlyBuckets(), nil
}

// PeriodDividends returns the blended dividend total over the given period.
func (p *Portfolio) PeriodDividends(ctx context.Context, provider HistoryProvider, period string) (decimal.Decimal, error) {
	dividends, err := p.DividendsSeries(ctx, provider, model.FetchParams{Period: period})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return dividends.Sum(), nil
}

// Correlations computes the Pearson correlation for every unordered pair of
// distinct holdings. Both close series are restricted to the time points
// where neither has a gap before correlating; fewer than 2 paired points
// fails with ErrInsufficientData instead of returning a degenerate value.
// Fetches run sequentially, pair by pair, and the first failure aborts.
func (p *Portfolio) Correlations(ctx context.Context, provider HistoryProvider, params model.FetchParams) ([]Correlation, error) {
	correlations := make([]Correlation, 0, len(p.holdings)*(len(p.holdings)-1)/2)
	for i := 0; i < len(p.holdings); i++ {
		for j := i + 1; j < len(p.holdings); j++ {
			a, b := p.holdings[i], p.holdings[j]

			historyA, err := provider.History(ctx, a.Ticker(), params)
			if err != nil {
				return nil, err
			}
			historyB, err := provider.History(ctx, b.Ticker(), params)
			if err != nil {
				return nil, err
			}

			xs, ys := historyA.Column(timeseries.FieldClose).AlignNonNull(historyB.Column(timeseries.FieldClose))
			if len(xs) < 2 {
				return nil, fmt.Errorf("%s/%s have %d paired points: %w", a.Ticker(), b.Ticker(), len(xs), ErrInsufficientData)
			}

			correlations = append(correlations, Correlation{
				A:           a,
				B:           b,
				Coefficient: stat.Correlation(xs, ys, nil),
			})
		}
	}
	return correlations, nil
}

// AsSingleSeries values the portfolio as one instrument: each holding's close
// series normalized to its own first value, scaled by the holding's absolute
// invested value (not its weight), and summed over the union of time points
// with zero fill.
func (p *Portfolio) AsSingleSeries(ctx context.Context, provider HistoryProvider, params model.FetchParams) (timeseries.Series, error) {
	var total timeseries.Series
	for i, h := range p.holdings {
		history, err := provider.History(ctx, h.Ticker(), params)
		if err != nil {
			return timeseries.Series{}, err
		}
		norm, err := history.Column(timeseries.FieldClose).Normalize()
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("holding %s: %w", h.Ticker(), err)
		}
		scaled := norm.Scale(h.Value())
		if i == 0 {
			total = scaled
			continue
		}
		total = total.AddOuter(scaled)
	}
	return total, nil
}

// NormalizedComparison returns one normalized close series per holding plus
// the normalized portfolio aggregate as the final entry, for side-by-side
// performance views.
func (p *Portfolio) NormalizedComparison(ctx context.Context, provider HistoryProvider, params model.FetchParams) ([]NamedSeries, error) {
	out := make([]NamedSeries, 0, len(p.holdings)+1)
	for _, h := range p.holdings {
		history, err := provider.History(ctx, h.Ticker(), params)
		if err != nil {
			return nil, err
		}
		norm, err := history.Column(timeseries.FieldClose).Normalize()
		if err != nil {
			return nil, fmt.Errorf("holding %s: %w", h.Ticker(), err)
		}
		out = append(out, NamedSeries{Name: h.Name(), Series: norm})
	}

	aggregate, err := p.AsSingleSeries(ctx, provider, params)
	if err != nil {
		return nil, err
	}
	norm, err := aggregate.Normalize()
	if err != nil {
		return nil, err
	}
	out = append(out, NamedSeries{Name: p.name, Series: norm})

	return out, nil
}
