package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/internal/chart"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
)

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	srv    *portfolioService.PortfolioService
	fetch  fetchFlags
	out    string
	theme  string
	title  string
	name   string
	single bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render portfolio performance as an HTML chart" }
func (*chartCmd) Usage() string {
	return `carteira chart [-period <p>] [-out <file>] [-theme onedark] [-single] TICKER[:VALUE]...

  Renders each holding's normalized close series (dashed) plus the portfolio
  aggregate (solid), or with -single only the portfolio valued as one
  instrument.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.fetch.register(f)
	f.StringVar(&c.out, "out", "chart.html", "output HTML file")
	f.StringVar(&c.theme, "theme", "default", "color theme: default or onedark")
	f.StringVar(&c.title, "title", "Portfolio performance", "chart title")
	f.StringVar(&c.name, "name", "Portfolio", "portfolio display name")
	f.BoolVar(&c.single, "single", false, "plot the portfolio as a single instrument")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	theme, err := chart.ByName(c.theme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := c.srv.BuildPortfolio(ctx, c.name, positions, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if c.single {
		series, err := p.AsSingleSeries(ctx, c.srv, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := chart.LinePlot(out, p.Name(), series, theme); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Chart written to %s\n", c.out)
		return subcommands.ExitSuccess
	}

	comparison, err := p.NormalizedComparison(ctx, c.srv, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
		return subcommands.ExitFailure
	}

	// Holdings draw thin and dashed, the aggregate thick and solid.
	lines := make([]chart.Line, 0, len(comparison))
	widths := make([]float32, 0, len(comparison))
	styles := make([]chart.LineStyle, 0, len(comparison))
	for i, ns := range comparison {
		lines = append(lines, chart.Line{Name: ns.Name, Series: ns.Series})
		if i == len(comparison)-1 {
			widths = append(widths, 3)
			styles = append(styles, chart.Solid)
		} else {
			widths = append(widths, 1)
			styles = append(styles, chart.Dashed)
		}
	}

	options := chart.LineOptions{Title: c.title, Widths: widths, Styles: styles}
	if err := chart.MultiLinePlot(out, lines, options, theme); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Chart written to %s\n", c.out)
	return subcommands.ExitSuccess
}
