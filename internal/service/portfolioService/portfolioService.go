package portfolioService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ricmaia/carteira/internal/externalApi"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/portfolio"
	"github.com/ricmaia/carteira/internal/service"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/ricmaia/carteira/utils"
	"github.com/shopspring/decimal"
)

type HistoryApi interface {
	History(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error)
	NormalizeTicker(ticker string) string
}

type Cache interface {
	GetHistory(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error)
	SetHistory(ctx context.Context, ticker string, params model.FetchParams, table timeseries.Table) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

// Position is one requested portfolio entry: a ticker and the value invested
// in it.
type Position struct {
	Ticker string
	Value  decimal.Decimal
}

// PortfolioService wires the history API, the optional cache and the report
// generator together. It implements portfolio.HistoryProvider, so the core
// computes through it without knowing about caching.
type PortfolioService struct {
	api       HistoryApi
	cache     Cache
	reportGen ReportGenerator
}

// New builds the service. cache may be nil, in which case every call goes to
// the API.
func New(api HistoryApi, cache Cache, reportGen ReportGenerator) *PortfolioService {
	return &PortfolioService{
		api:       api,
		cache:     cache,
		reportGen: reportGen,
	}
}

// History fetches one ticker's history table, trying the cache first and
// falling back to the API. Unknown tickers surface as ErrTickerNotFound.
func (s *PortfolioService) History(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.History"

	ticker = s.api.NormalizeTicker(ticker)

	slog.Debug("History start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	defer func() {
		slog.Debug("History finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	}()

	if s.cache != nil {
		table, err := s.cache.GetHistory(ctx, ticker, params)
		if err == nil {
			return table, nil
		}
		slog.Warn("can't get history from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	table, err := s.api.History(ctx, ticker, params)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("ticker not found in history api", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
			return timeseries.Table{}, service.ErrTickerNotFound
		}
		slog.Error("can't get history from api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return timeseries.Table{}, err
	}

	if s.cache != nil {
		go s.cache.SetHistory(context.WithoutCancel(ctx), ticker, params, table)
	}

	return table, nil
}

// BuildPortfolio fetches each position's history and assembles the portfolio.
// The first fetch failure aborts the whole build.
func (s *PortfolioService) BuildPortfolio(ctx context.Context, name string, positions []Position, params model.FetchParams) (*portfolio.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.BuildPortfolio"

	slog.Debug("BuildPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("positions", len(positions)))
	defer func() {
		slog.Debug("BuildPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holdings := make([]*portfolio.Holding, 0, len(positions))
	for _, pos := range positions {
		holding, err := portfolio.FetchHolding(ctx, s, pos.Ticker, pos.Value, params)
		if err != nil {
			slog.Error("got error from portfolio.FetchHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", pos.Ticker), slog.String("err", err.Error()))
			return nil, err
		}
		holdings = append(holdings, holding)
	}

	p, err := portfolio.NewPortfolio(name, holdings)
	if err != nil {
		slog.Error("got error from portfolio.NewPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return p, nil
}

// Summary computes the per-holding and portfolio-level figures for the given
// period.
func (s *PortfolioService) Summary(ctx context.Context, p *portfolio.Portfolio, period string) (model.PortfolioReport, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Summary"

	slog.Debug("Summary start", slog.String("rqID", rqID), slog.String("op", op), slog.String("period", period))
	defer func() {
		slog.Debug("Summary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	report := model.PortfolioReport{
		PortfolioName: p.Name(),
		Period:        period,
		TotalValue:    p.Value(),
	}

	weights := p.Weights()
	for i, h := range p.Holdings() {
		valorization, err := h.PeriodValorization(ctx, s, period)
		if err != nil {
			return model.PortfolioReport{}, err
		}
		dividends, err := h.PeriodDividends(ctx, s, period)
		if err != nil {
			return model.PortfolioReport{}, err
		}
		report.Holdings = append(report.Holdings, model.HoldingSummary{
			Ticker:       h.Ticker(),
			Value:        h.Value(),
			Weight:       weights[i],
			Valorization: valorization,
			Dividends:    dividends,
		})
	}

	valorization, err := p.PeriodValorization(ctx, s, period)
	if err != nil {
		return model.PortfolioReport{}, err
	}
	report.Valorization = valorization

	dividends, err := p.PeriodDividends(ctx, s, period)
	if err != nil {
		return model.PortfolioReport{}, err
	}
	report.Dividends = dividends

	correlations, err := p.Correlations(ctx, s, model.FetchParams{Period: period})
	if err != nil {
		return model.PortfolioReport{}, err
	}
	for _, c := range correlations {
		report.Correlations = append(report.Correlations, model.PairCorrelation{
			TickerA:     c.A.Ticker(),
			TickerB:     c.B.Ticker(),
			Coefficient: c.Coefficient,
		})
	}

	return report, nil
}

// GenerateReport renders the period summary through the report generator.
func (s *PortfolioService) GenerateReport(ctx context.Context, p *portfolio.Portfolio, period string) (fileBytes []byte, fileExtension string, err error) {
	report, err := s.Summary(ctx, p, period)
	if err != nil {
		return nil, "", err
	}
	return s.reportGen.Generate(ctx, report)
}
