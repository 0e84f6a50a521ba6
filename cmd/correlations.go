package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
)

// correlationsCmd holds the flags for the 'correlations' subcommand.
type correlationsCmd struct {
	srv   *portfolioService.PortfolioService
	fetch fetchFlags
}

func (*correlationsCmd) Name() string     { return "correlations" }
func (*correlationsCmd) Synopsis() string { return "print pairwise close-price correlations" }
func (*correlationsCmd) Usage() string {
	return `carteira correlations [-period <p>] [-interval <i>] TICKER TICKER...

  Prints the Pearson correlation of every pair of tickers, computed over the
  time points where both have a close price.
`
}

func (c *correlationsCmd) SetFlags(f *flag.FlagSet) {
	c.fetch.register(f)
}

func (c *correlationsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := parsePositions(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(positions) < 2 {
		fmt.Fprintln(os.Stderr, "Error: at least two tickers are required")
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

	correlations, err := p.Correlations(ctx, c.srv, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing correlations: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, corr := range correlations {
		fmt.Printf("%s\t%s\t%.6f\n", corr.A.Ticker(), corr.B.Ticker(), corr.Coefficient)
	}
	return subcommands.ExitSuccess
}
