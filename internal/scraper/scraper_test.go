package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ricmaia/carteira/config"
	"github.com/shopspring/decimal"
)

func newTestScraper(t *testing.T, html string) (*Scraper, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.Scraper.RequestsUserAgent = "test-agent"
	return New(cfg), server.URL
}

func TestParseBRNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "R$ 1.234,56", want: "1234.56"},
		{in: "12,5%", want: "12.5"},
		{in: "0,0062", want: "0.0062"},
		{in: "1.000", want: "1000"},
		{in: "42", want: "42"},
		{in: "", wantErr: true},
		{in: "N/A", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseBRNumber(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseBRNumber(%q) err = nil, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBRNumber(%q) err = %v", tc.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseBRNumber(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestTableFromURL(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Papel</th><th>Cotação</th></tr>
		<tr><td>PETR4</td><td>R$ 38,20</td></tr>
		<tr><td>VALE3</td><td>R$ 61,05</td></tr>
	</table></body></html>`
	scraper, url := newTestScraper(t, html)

	table, err := scraper.TableFromURL(context.Background(), url)
	if err != nil {
		t.Fatalf("TableFromURL() err = %v", err)
	}

	if len(table.Headers) != 2 || table.Headers[0] != "Papel" {
		t.Errorf("Headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 || table.Rows[0][0] != "PETR4" {
		t.Errorf("Rows = %v", table.Rows)
	}

	prices, err := table.DecimalColumn("Cotação")
	if err != nil {
		t.Fatalf("DecimalColumn() err = %v", err)
	}
	if !prices[0].Valid || !prices[0].Decimal.Equal(decimal.RequireFromString("38.20")) {
		t.Errorf("prices[0] = %v, want 38.20", prices[0])
	}
}

func TestTableFromURLNoTable(t *testing.T) {
	scraper, url := newTestScraper(t, `<html><body><p>nothing here</p></body></html>`)

	_, err := scraper.TableFromURL(context.Background(), url)
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("err = %v, want ErrNoTable", err)
	}
}

func TestTableFromURLMultipleTables(t *testing.T) {
	scraper, url := newTestScraper(t, `<html><body><table></table><table></table></body></html>`)

	_, err := scraper.TableFromURL(context.Background(), url)
	if !errors.Is(err, ErrMultipleTables) {
		t.Errorf("err = %v, want ErrMultipleTables", err)
	}
}

func TestTableFromURLHeaderless(t *testing.T) {
	html := `<table><tr><td>a</td><td>b</td></tr></table>`
	scraper, url := newTestScraper(t, html)

	table, err := scraper.TableFromURL(context.Background(), url)
	if err != nil {
		t.Fatalf("TableFromURL() err = %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[0] != "col0" {
		t.Errorf("Headers = %v, want positional names", table.Headers)
	}
}

func TestColumnUnknown(t *testing.T) {
	table := DataTable{Headers: []string{"a"}, Rows: [][]string{{"1"}}}

	_, err := table.Column("missing")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestDecimalColumnKeepsGapsForUnparsableCells(t *testing.T) {
	table := DataTable{Headers: []string{"v"}, Rows: [][]string{{"1,5"}, {"-"}, {"2"}}}

	got, err := table.DecimalColumn("v")
	if err != nil {
		t.Fatalf("DecimalColumn() err = %v", err)
	}
	if got[1].Valid {
		t.Errorf("got[1] = %v, want gap", got[1].Decimal)
	}
	if !got[0].Decimal.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("got[0] = %v, want 1.5", got[0])
	}
}

func TestFundamentusRanking(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Path == "/fii_resultado.php" {
			fmt.Fprint(w, `<table>
				<tr><th>Papel</th><th>Liquidez</th></tr>
				<tr><td>HGLG11</td><td>1.000</td></tr>
			</table>`)
			return
		}
		fmt.Fprint(w, `<table>
			<tr><th>Papel</th><th>Liq.2meses</th></tr>
			<tr><td>PETR4</td><td>1.500.000</td></tr>
			<tr><td>XXXX3</td><td>500</td></tr>
		</table>`)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.Scraper.FundamentusUrl = server.URL
	scraper := New(cfg)

	table, err := scraper.FundamentusRanking(context.Background(), false, decimal.RequireFromString("1000"))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if gotPath != "/resultado.php" {
		t.Errorf("path = %q, want /resultado.php", gotPath)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "PETR4" {
		t.Errorf("Rows = %v, want only PETR4 above the floor", table.Rows)
	}

	if _, err := scraper.FundamentusRanking(context.Background(), true, decimal.Zero); err != nil {
		t.Fatalf("err = %v", err)
	}
	if gotPath != "/fii_resultado.php" {
		t.Errorf("path = %q, want /fii_resultado.php", gotPath)
	}
}

func TestFilterMinimum(t *testing.T) {
	table := DataTable{
		Headers: []string{"Papel", "Liquidez"},
		Rows: [][]string{
			{"AAAA11", "2.000"},
			{"BBBB11", "0"},
			{"CCCC11", "-"},
		},
	}

	got, err := table.FilterMinimum("Liquidez", decimal.Zero)
	if err != nil {
		t.Fatalf("FilterMinimum() err = %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0][0] != "AAAA11" {
		t.Errorf("Rows = %v, want only AAAA11", got.Rows)
	}

	if _, err := table.FilterMinimum("nope", decimal.Zero); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestParseBRNumberNegative(t *testing.T) {
	got, err := ParseBRNumber("-1,25%")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !got.Equal(decimal.RequireFromString("-1.25")) {
		t.Errorf("got = %s, want -1.25", got)
	}
}

// ParseBRNumber feeds DecimalColumn; empty strings must not parse as zero.
func TestParseBRNumberCurrencyOnly(t *testing.T) {
	if _, err := ParseBRNumber("R$"); err == nil {
		t.Error("err = nil, want error")
	}
}
