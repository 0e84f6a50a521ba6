package portfolioService

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ricmaia/carteira/internal/externalApi"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/service"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/shopspring/decimal"
)

type fakeApi struct {
	tables map[string]timeseries.Table
	calls  int
}

func (f *fakeApi) History(_ context.Context, ticker string, _ model.FetchParams) (timeseries.Table, error) {
	f.calls++
	table, ok := f.tables[ticker]
	if !ok {
		return timeseries.Table{}, externalApi.ErrNotFound
	}
	return table, nil
}

func (f *fakeApi) NormalizeTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if !strings.Contains(ticker, ".") {
		ticker += ".SA"
	}
	return ticker
}

type fakeCache struct {
	mu     sync.Mutex
	tables map[string]timeseries.Table
	sets   int
}

func (f *fakeCache) GetHistory(_ context.Context, ticker string, _ model.FetchParams) (timeseries.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[ticker]
	if !ok {
		return timeseries.Table{}, errors.New("cache miss")
	}
	return table, nil
}

func (f *fakeCache) SetHistory(_ context.Context, ticker string, _ model.FetchParams, table timeseries.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables == nil {
		f.tables = make(map[string]timeseries.Table)
	}
	f.tables[ticker] = table
	f.sets++
	return nil
}

type fakeReportGen struct {
	got model.PortfolioReport
}

func (f *fakeReportGen) Generate(_ context.Context, report model.PortfolioReport) ([]byte, string, error) {
	f.got = report
	return []byte("report"), ".xlsx", nil
}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func tableOf(closes ...string) timeseries.Table {
	var tbl timeseries.Table
	for i, c := range closes {
		var bar timeseries.Bar
		bar.Close = decimal.NewNullDecimal(decimal.RequireFromString(c))
		bar.Dividends = decimal.NewNullDecimal(decimal.Zero)
		tbl.Append(day(i+1), bar)
	}
	return tbl
}

func TestHistoryCacheMissHitsApi(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{"PETR4.SA": tableOf("10", "12")}}
	cache := &fakeCache{}
	srv := New(api, cache, nil)

	table, err := srv.History(context.Background(), "petr4", model.FetchParams{Period: "1y"})
	if err != nil {
		t.Fatalf("History() err = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if api.calls != 1 {
		t.Errorf("api calls = %d, want 1", api.calls)
	}
}

func TestHistoryCacheHitSkipsApi(t *testing.T) {
	api := &fakeApi{}
	cache := &fakeCache{tables: map[string]timeseries.Table{"PETR4.SA": tableOf("10")}}
	srv := New(api, cache, nil)

	_, err := srv.History(context.Background(), "PETR4", model.FetchParams{})
	if err != nil {
		t.Fatalf("History() err = %v", err)
	}
	if api.calls != 0 {
		t.Errorf("api calls = %d, want 0", api.calls)
	}
}

func TestHistoryNilCache(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{"PETR4.SA": tableOf("10")}}
	srv := New(api, nil, nil)

	if _, err := srv.History(context.Background(), "PETR4", model.FetchParams{}); err != nil {
		t.Fatalf("History() err = %v", err)
	}
}

func TestHistoryUnknownTicker(t *testing.T) {
	srv := New(&fakeApi{}, nil, nil)

	_, err := srv.History(context.Background(), "XXXX", model.FetchParams{})
	if !errors.Is(err, service.ErrTickerNotFound) {
		t.Errorf("err = %v, want ErrTickerNotFound", err)
	}
}

func TestBuildPortfolio(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{
		"PETR4.SA": tableOf("10", "12"),
		"VALE3.SA": tableOf("20", "18"),
	}}
	srv := New(api, nil, nil)

	positions := []Position{
		{Ticker: "petr4", Value: decimal.RequireFromString("300")},
		{Ticker: "vale3", Value: decimal.RequireFromString("300")},
	}
	p, err := srv.BuildPortfolio(context.Background(), "mine", positions, model.FetchParams{Period: "1y"})
	if err != nil {
		t.Fatalf("BuildPortfolio() err = %v", err)
	}

	if p.Name() != "mine" {
		t.Errorf("Name() = %q, want mine", p.Name())
	}
	weights := p.Weights()
	if !weights[0].Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("weights = %v, want [0.5 0.5]", weights)
	}
}

func TestBuildPortfolioUnknownTickerAborts(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{"PETR4.SA": tableOf("10")}}
	srv := New(api, nil, nil)

	positions := []Position{
		{Ticker: "petr4", Value: decimal.RequireFromString("1")},
		{Ticker: "nope", Value: decimal.RequireFromString("1")},
	}
	_, err := srv.BuildPortfolio(context.Background(), "p", positions, model.FetchParams{})
	if !errors.Is(err, service.ErrTickerNotFound) {
		t.Errorf("err = %v, want ErrTickerNotFound", err)
	}
}

func TestSummary(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{
		"A.SA": tableOf("10", "12", "9"),
		"B.SA": tableOf("20", "22", "24"),
	}}
	srv := New(api, nil, nil)

	positions := []Position{
		{Ticker: "a", Value: decimal.RequireFromString("100")},
		{Ticker: "b", Value: decimal.RequireFromString("100")},
	}
	p, err := srv.BuildPortfolio(context.Background(), "mine", positions, model.FetchParams{Period: "1y"})
	if err != nil {
		t.Fatalf("BuildPortfolio() err = %v", err)
	}

	report, err := srv.Summary(context.Background(), p, "1y")
	if err != nil {
		t.Fatalf("Summary() err = %v", err)
	}

	if report.PortfolioName != "mine" || report.Period != "1y" {
		t.Errorf("header = %q %q", report.PortfolioName, report.Period)
	}
	if !report.TotalValue.Equal(decimal.RequireFromString("200")) {
		t.Errorf("TotalValue = %s, want 200", report.TotalValue)
	}
	if len(report.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(report.Holdings))
	}
	if !report.Holdings[0].Valorization.Equal(decimal.RequireFromString("-0.1")) {
		t.Errorf("A valorization = %s, want -0.1", report.Holdings[0].Valorization)
	}
	if !report.Holdings[1].Valorization.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("B valorization = %s, want 0.2", report.Holdings[1].Valorization)
	}
	if len(report.Correlations) != 1 {
		t.Fatalf("correlations = %d, want 1", len(report.Correlations))
	}
}

func TestGenerateReport(t *testing.T) {
	api := &fakeApi{tables: map[string]timeseries.Table{"A.SA": tableOf("10", "11", "12")}}
	gen := &fakeReportGen{}
	srv := New(api, nil, gen)

	positions := []Position{{Ticker: "a", Value: decimal.RequireFromString("100")}}
	p, err := srv.BuildPortfolio(context.Background(), "mine", positions, model.FetchParams{})
	if err != nil {
		t.Fatalf("BuildPortfolio() err = %v", err)
	}

	fileBytes, ext, err := srv.GenerateReport(context.Background(), p, "6mo")
	if err != nil {
		t.Fatalf("GenerateReport() err = %v", err)
	}
	if ext != ".xlsx" || string(fileBytes) != "report" {
		t.Errorf("got %q %q", fileBytes, ext)
	}
	if gen.got.Period != "6mo" {
		t.Errorf("report period = %q, want 6mo", gen.got.Period)
	}
}
