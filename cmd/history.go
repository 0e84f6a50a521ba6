package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
	"github.com/ricmaia/carteira/internal/timeseries"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	srv        *portfolioService.PortfolioService
	fetch      fetchFlags
	normalized bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print the (blended) close-price series" }
func (*historyCmd) Usage() string {
	return `carteira history [-period <p>] [-interval <i>] [-normalized] TICKER[:VALUE]...

  Prints the close series of a single holding, or the weight-blended close
  series of a portfolio when several tickers are given.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.fetch.register(f)
	f.BoolVar(&c.normalized, "normalized", false, "divide the series by its first value")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := parsePositions(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		return subcommands.ExitUsageError
	}
	params, err := c.fetch.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := c.srv.BuildPortfolio(ctx, "Portfolio", positions, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	var series timeseries.Series
	if c.normalized {
		series, err = p.NormalizedCloseSeries(ctx, c.srv, params)
	} else {
		series, err = p.CloseSeries(ctx, c.srv, params)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
		return subcommands.ExitFailure
	}

	printSeries(os.Stdout, series)
	return subcommands.ExitSuccess
}
