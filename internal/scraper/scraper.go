// Package scraper retrieves HTML tables from finance sites and turns their
// Brazilian-formatted cells into decimals.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/ricmaia/carteira/config"
	"github.com/ricmaia/carteira/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrNoTable        = errors.New("error no table present in the page")
	ErrMultipleTables = errors.New("error more than one table present in the page")
	ErrUnknownColumn  = errors.New("error unknown column")
)

// DataTable is one parsed HTML table: a header row plus data rows, all cells
// kept as the page spelled them.
type DataTable struct {
	Headers []string
	Rows    [][]string
}

// Column returns the raw cells of the named column.
func (t DataTable) Column(name string) ([]string, error) {
	for i, h := range t.Headers {
		if h != name {
			continue
		}
		out := make([]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if i < len(row) {
				out = append(out, row[i])
			} else {
				out = append(out, "")
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
}

// DecimalColumn returns the named column parsed as decimals. Currency
// prefixes, percent suffixes and pt-BR digit grouping are stripped; cells
// that still do not parse become gaps.
func (t DataTable) DecimalColumn(name string) ([]decimal.NullDecimal, error) {
	raw, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]decimal.NullDecimal, 0, len(raw))
	for _, cell := range raw {
		d, err := ParseBRNumber(cell)
		if err != nil {
			out = append(out, decimal.NullDecimal{})
			continue
		}
		out = append(out, decimal.NewNullDecimal(d))
	}
	return out, nil
}

// FilterMinimum keeps the rows whose named column parses to a value strictly
// greater than floor. Rows with unparsable cells are dropped.
func (t DataTable) FilterMinimum(name string, floor decimal.Decimal) (DataTable, error) {
	idx := -1
	for i, h := range t.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return DataTable{}, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}

	out := DataTable{Headers: t.Headers}
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		v, err := ParseBRNumber(row[idx])
		if err != nil {
			continue
		}
		if v.GreaterThan(floor) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// ParseBRNumber parses a Brazilian-formatted numeric cell: an optional "R$"
// prefix, "." as the thousands separator, "," as the decimal separator and an
// optional "%" suffix.
func ParseBRNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, errors.New("empty cell")
	}
	return decimal.NewFromString(s)
}

type Scraper struct {
	client *resty.Client
	cfg    *config.Config
}

func New(cfg *config.Config) *Scraper {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetHeader("User-Agent", cfg.Scraper.RequestsUserAgent).
		SetHeader("X-Requested-With", "XMLHttpRequest")
	return &Scraper{client: client, cfg: cfg}
}

// TableFromURL fetches the page and parses its single HTML table. Pages with
// zero tables fail with ErrNoTable, pages with more than one with
// ErrMultipleTables.
func (s *Scraper) TableFromURL(ctx context.Context, url string) (DataTable, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start Scraper.TableFromURL request", slog.String("rqID", rqID), slog.String("url", url))

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		slog.Error("error while fetching page", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return DataTable{}, err
	}
	if resp.StatusCode() != 200 {
		return DataTable{}, fmt.Errorf("unexpected status %s for %s", resp.Status(), url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		slog.Error("can't parse page HTML", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return DataTable{}, err
	}

	tables := doc.Find("table")
	switch tables.Length() {
	case 0:
		return DataTable{}, ErrNoTable
	case 1:
	default:
		return DataTable{}, ErrMultipleTables
	}

	table := parseTable(tables.First())

	slog.Debug("Scraper.TableFromURL request complete", slog.String("rqID", rqID), slog.Int("rows", len(table.Rows)))

	return table, nil
}

// FundamentusRanking fetches the fundamentus.com.br screening table, for
// stocks or for real-estate funds, keeping only rows above the liquidity
// floor. The liquidity column is "Liq.2meses" for stocks, "Liquidez" for
// real-estate funds.
func (s *Scraper) FundamentusRanking(ctx context.Context, realEstate bool, liquidityFloor decimal.Decimal) (DataTable, error) {
	page, column := "/resultado.php", "Liq.2meses"
	if realEstate {
		page, column = "/fii_resultado.php", "Liquidez"
	}
	table, err := s.TableFromURL(ctx, s.cfg.Scraper.FundamentusUrl+page)
	if err != nil {
		return DataTable{}, err
	}
	return table.FilterMinimum(column, liquidityFloor)
}

// FundsExplorerRanking fetches the fundsexplorer.com.br real-estate fund
// ranking table.
func (s *Scraper) FundsExplorerRanking(ctx context.Context) (DataTable, error) {
	return s.TableFromURL(ctx, s.cfg.Scraper.FundsExplorerUrl)
}

func parseTable(sel *goquery.Selection) DataTable {
	var table DataTable

	sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
		headers := cellTexts(row.Find("th"))
		if len(headers) > 0 && table.Headers == nil {
			table.Headers = headers
			return
		}
		cells := cellTexts(row.Find("td"))
		if len(cells) > 0 {
			table.Rows = append(table.Rows, cells)
		}
	})

	// Headerless tables keep positional access working.
	if table.Headers == nil && len(table.Rows) > 0 {
		table.Headers = make([]string, len(table.Rows[0]))
		for i := range table.Headers {
			table.Headers[i] = fmt.Sprintf("col%d", i)
		}
	}

	return table
}

func cellTexts(cells *goquery.Selection) []string {
	var out []string
	cells.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(cell.Text()), " "))
	})
	return out
}
