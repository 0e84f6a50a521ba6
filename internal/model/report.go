package model

import "github.com/shopspring/decimal"

// HoldingSummary is one holding's line in a portfolio report.
type HoldingSummary struct {
	Ticker       string
	Value        decimal.Decimal
	Weight       decimal.Decimal
	Valorization decimal.Decimal
	Dividends    decimal.Decimal
}

// PairCorrelation is the correlation of one holding pair in a report.
type PairCorrelation struct {
	TickerA     string
	TickerB     string
	Coefficient float64
}

// PortfolioReport aggregates everything a rendered report needs.
type PortfolioReport struct {
	PortfolioName string
	Period        string
	TotalValue    decimal.Decimal
	Valorization  decimal.Decimal
	Dividends     decimal.Decimal
	Holdings      []HoldingSummary
	Correlations  []PairCorrelation
}
