package yahooApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ricmaia/carteira/config"
	"github.com/ricmaia/carteira/internal/externalApi"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/model/yahooModel"
	"github.com/ricmaia/carteira/internal/timeseries"
	"github.com/ricmaia/carteira/utils"
	"github.com/shopspring/decimal"
)

type YahooApi struct {
	client *resty.Client
	suffix string
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url)
	return &YahooApi{client: client, suffix: cfg.API.YahooApi.TickerSuffix}
}

// NormalizeTicker upper-cases the ticker and appends the configured market
// suffix (".SA" by default) when the ticker carries no exchange suffix yet.
func (a *YahooApi) NormalizeTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if a.suffix != "" && !strings.Contains(ticker, ".") {
		ticker += strings.ToUpper(a.suffix)
	}
	return ticker
}

func (a *YahooApi) History(ctx context.Context, ticker string, params model.FetchParams) (timeseries.Table, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	symbol := a.NormalizeTicker(ticker)
	url := "/v8/finance/chart/" + symbol

	qp := map[string]string{
		"events":               "div,splits",
		"includeAdjustedClose": "false",
		"interval":             "1d",
	}
	if params.Interval != "" {
		qp["interval"] = params.Interval
	}
	switch {
	case !params.Start.IsZero():
		qp["period1"] = strconv.FormatInt(params.Start.Unix(), 10)
		end := params.End
		if end.IsZero() {
			end = time.Now()
		}
		qp["period2"] = strconv.FormatInt(end.Unix(), 10)
	case params.Period != "":
		qp["range"] = params.Period
	default:
		qp["range"] = "1mo"
	}

	slog.Debug("start YahooApi.History request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(qp).
		Get(url)

	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return timeseries.Table{}, err
	}

	rawChart := yahooModel.RawChart{}
	err = json.Unmarshal(resp.Body(), &rawChart)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.RawChart", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return timeseries.Table{}, err
	}

	if rawChart.Chart.Error != nil {
		if rawChart.Chart.Error.Code == "Not Found" {
			slog.Warn("symbol not found in YahooApi", slog.String("rqID", rqId), slog.String("symbol", symbol))
			return timeseries.Table{}, externalApi.ErrNotFound
		}
		return timeseries.Table{}, fmt.Errorf("chart error %s: %s", rawChart.Chart.Error.Code, rawChart.Chart.Error.Description)
	}

	if len(rawChart.Chart.Result) == 0 {
		return timeseries.Table{}, externalApi.ErrNotFound
	}

	table, err := a.parseChartResult(rawChart.Chart.Result[0])
	if err != nil {
		slog.Error("can't parse raw chart data", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return timeseries.Table{}, err
	}

	slog.Debug("YahooApi.History request complete", slog.String("rqID", rqId), slog.Int("rows", table.Len()))

	return table, nil
}

func (a *YahooApi) parseChartResult(res yahooModel.ChartResult) (timeseries.Table, error) {
	if len(res.Timestamp) == 0 {
		return timeseries.Table{}, externalApi.ErrEmptyHistory
	}

	if len(res.Indicators.Quote) != 1 {
		return timeseries.Table{}, errors.New("unexpected quote count, expected only 1 element")
	}
	quote := res.Indicators.Quote[0]

	n := len(res.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n ||
		len(quote.Close) != n || len(quote.Volume) != n {
		return timeseries.Table{}, errors.New("lengths quote arrays != timestamps")
	}

	dividends := make(map[time.Time]float64)
	splits := make(map[time.Time]float64)
	if res.Events != nil {
		for _, d := range res.Events.Dividends {
			dividends[dayOf(time.Unix(d.Date, 0))] += d.Amount
		}
		for _, s := range res.Events.Splits {
			if s.Denominator != 0 {
				splits[dayOf(time.Unix(s.Date, 0))] = float64(s.Numerator) / float64(s.Denominator)
			}
		}
	}

	var table timeseries.Table
	for i, ts := range res.Timestamp {
		at := time.Unix(ts, 0).UTC()
		bar := timeseries.Bar{
			Open:        floatCell(quote.Open[i]),
			High:        floatCell(quote.High[i]),
			Low:         floatCell(quote.Low[i]),
			Close:       floatCell(quote.Close[i]),
			Volume:      intCell(quote.Volume[i]),
			Dividends:   eventCell(dividends, at, 0),
			StockSplits: eventCell(splits, at, 0),
		}
		table.Append(at, bar)
	}

	return table, nil
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func floatCell(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func intCell(v *int64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(*v))
}

// eventCell reads the event amount registered for the row's day, falling back
// to the given default. Rows without an event get an explicit zero, matching
// how the provider renders dividend and split columns.
func eventCell(events map[time.Time]float64, at time.Time, def float64) decimal.NullDecimal {
	if amount, ok := events[dayOf(at)]; ok {
		return decimal.NewNullDecimal(decimal.NewFromFloat(amount))
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(def))
}
