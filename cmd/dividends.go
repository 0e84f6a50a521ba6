package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/chart"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/portfolio"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
	"github.com/shopspring/decimal"
)

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	srv     *portfolioService.PortfolioService
	period  string
	monthly bool
	out     string
	theme   string
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "print or chart a ticker's dividends" }
func (*dividendsCmd) Usage() string {
	return `carteira dividends [-period <p>] [-monthly] [-out <file>] TICKER

  Prints the ticker's dividend series and total. With -monthly the events are
  summed per calendar month; with -out the monthly series renders as a bar
  chart instead.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "1y", "history window, e.g. 1mo, 6mo, 1y, max")
	f.BoolVar(&c.monthly, "monthly", false, "sum dividend events per calendar month")
	f.StringVar(&c.out, "out", "", "render a bar chart to this HTML file")
	f.StringVar(&c.theme, "theme", "default", "color theme: default or onedark")
}

func (c *dividendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one ticker is required")
		return subcommands.ExitUsageError
	}

	holding, err := portfolio.FetchHolding(ctx, c.srv, f.Arg(0), decimal.New(1, 0), model.FetchParams{Period: c.period})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching holding: %v\n", err)
		return subcommands.ExitFailure
	}

	series := holding.DividendsSeries().NonZero()
	if c.monthly || c.out != "" {
		series = holding.MonthlyDividendsSeries()
	}

	if c.out != "" {
		theme, err := chart.ByName(c.theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		out, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := chart.DividendsPlot(out, holding.Name(), series, theme); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Chart written to %s\n", c.out)
		return subcommands.ExitSuccess
	}

	printSeries(os.Stdout, series)
	fmt.Printf("total\t%s\n", holding.TotalDividends().StringFixed(4))
	return subcommands.ExitSuccess
}
