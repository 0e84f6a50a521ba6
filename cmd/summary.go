package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
	"github.com/shopspring/decimal"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	srv    *portfolioService.PortfolioService
	period string
	name   string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print weights, valorization and dividends" }
func (*summaryCmd) Usage() string {
	return `carteira summary [-period <p>] [-name <n>] TICKER[:VALUE]...

  Prints each holding's weight, period valorization and dividends, followed
  by the portfolio totals and the pairwise correlations.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "1y", "history window, e.g. 1mo, 6mo, 1y, max")
	f.StringVar(&c.name, "name", "Portfolio", "portfolio display name")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := parsePositions(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := c.srv.BuildPortfolio(ctx, c.name, positions, model.FetchParams{Period: c.period})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := c.srv.Summary(ctx, p, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing summary: %v\n", err)
		return subcommands.ExitFailure
	}

	hundred := decimal.New(100, 0)
	fmt.Printf("%s (%s)\n", report.PortfolioName, report.Period)
	for _, h := range report.Holdings {
		fmt.Printf("  %-12s value=%s weight=%s%% valorization=%s%% dividends=%s\n",
			h.Ticker,
			h.Value.StringFixed(2),
			h.Weight.Mul(hundred).StringFixed(1),
			h.Valorization.Mul(hundred).StringFixed(2),
			h.Dividends.StringFixed(4),
		)
	}
	fmt.Printf("  total value=%s valorization=%s%% dividends=%s\n",
		report.TotalValue.StringFixed(2),
		report.Valorization.Mul(hundred).StringFixed(2),
		report.Dividends.StringFixed(4),
	)
	for _, corr := range report.Correlations {
		fmt.Printf("  corr(%s, %s) = %.4f\n", corr.TickerA, corr.TickerB, corr.Coefficient)
	}

	return subcommands.ExitSuccess
}
