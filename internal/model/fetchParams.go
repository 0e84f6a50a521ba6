package model

import (
	"fmt"
	"time"
)

// FetchParams are the history fetch parameters applied uniformly to every
// holding of a request. Either Period or the Start/End pair selects the
// window; Interval selects the sampling step.
type FetchParams struct {
	Period   string // "1mo", "6mo", "1y", "max", ... Ignored when Start is set.
	Interval string // "1d", "1wk", "1mo", ...
	Start    time.Time
	End      time.Time
}

// WithoutInterval drops the sampling step, falling back to the provider
// default. Month-bucketed views use it so buckets are built from daily rows.
func (p FetchParams) WithoutInterval() FetchParams {
	p.Interval = ""
	return p
}

// Key returns a stable textual form, usable as a cache key component.
func (p FetchParams) Key() string {
	start, end := "", ""
	if !p.Start.IsZero() {
		start = p.Start.UTC().Format("2006-01-02")
	}
	if !p.End.IsZero() {
		end = p.End.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("period=%s;interval=%s;start=%s;end=%s", p.Period, p.Interval, start, end)
}
