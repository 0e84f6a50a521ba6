package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/scraper"
	"github.com/shopspring/decimal"
)

// rankingCmd holds the flags for the 'ranking' subcommand.
type rankingCmd struct {
	scraper      *scraper.Scraper
	source       string
	realEstate   bool
	minLiquidity string
	limit        int
}

func (*rankingCmd) Name() string     { return "ranking" }
func (*rankingCmd) Synopsis() string { return "scrape a public fundamentals ranking table" }
func (*rankingCmd) Usage() string {
	return `carteira ranking [-source fundamentus|fundsexplorer] [-real-estate] [-limit <n>]

  Fetches a ranking table from the chosen source and prints it tab-separated.
`
}

func (c *rankingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "fundamentus", "ranking source: fundamentus or fundsexplorer")
	f.BoolVar(&c.realEstate, "real-estate", false, "fundamentus real estate funds instead of stocks")
	f.StringVar(&c.minLiquidity, "min-liquidity", "0", "fundamentus liquidity floor, rows at or below it are dropped")
	f.IntVar(&c.limit, "limit", 0, "print at most this many rows, 0 for all")
}

func (c *rankingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	liquidityFloor, err := decimal.NewFromString(c.minLiquidity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -min-liquidity: %v\n", err)
		return subcommands.ExitUsageError
	}

	var table scraper.DataTable
	switch c.source {
	case "fundamentus":
		table, err = c.scraper.FundamentusRanking(ctx, c.realEstate, liquidityFloor)
	case "fundsexplorer":
		table, err = c.scraper.FundsExplorerRanking(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown source %q\n", c.source)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching ranking: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(strings.Join(table.Headers, "\t"))
	for i, row := range table.Rows {
		if c.limit > 0 && i >= c.limit {
			break
		}
		fmt.Println(strings.Join(row, "\t"))
	}
	return subcommands.ExitSuccess
}
