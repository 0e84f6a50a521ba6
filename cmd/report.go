package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	srv    *portfolioService.PortfolioService
	fetch  fetchFlags
	name   string
	period string
	out    string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate a portfolio spreadsheet report" }
func (*reportCmd) Usage() string {
	return `carteira report [-name <n>] [-period <p>] [-out <file>] TICKER[:VALUE]...

  Builds a portfolio from the given positions and writes a spreadsheet with
  per-holding summaries, portfolio totals and pairwise correlations.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.fetch.register(f)
	f.StringVar(&c.name, "name", "Portfolio", "portfolio name")
	f.StringVar(&c.period, "period", "1y", "summary window, e.g. 1mo, 6mo, 1y, max")
	f.StringVar(&c.out, "out", "report", "output file, extension appended if missing")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := parsePositions(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	params, err := c.fetch.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := c.srv.BuildPortfolio(ctx, c.name, positions, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	fileBytes, ext, err := c.srv.GenerateReport(ctx, p, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		return subcommands.ExitFailure
	}

	path := c.out
	if !strings.HasSuffix(path, ext) {
		path += ext
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Report written to %s\n", path)
	return subcommands.ExitSuccess
}
