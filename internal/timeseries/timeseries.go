// Package timeseries provides the chronological series and OHLCV table types
// the rest of the toolkit computes on. Alignment policy is always explicit:
// AddOuter unions timestamps and fills missing contributions with zero,
// AlignNonNull intersects timestamps and drops missing values.
package timeseries

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty           = errors.New("error empty series")
	ErrZeroBaseline    = errors.New("error first value is zero")
	ErrMissingBaseline = errors.New("error first value is missing")
)

// Series stores a chronological sequence of decimal values, each associated
// with a unique timestamp. Cells may be missing (NullDecimal with Valid ==
// false) to represent gaps reported by the data provider.
type Series struct {
	times  []time.Time
	values []decimal.NullDecimal
}

// Append adds a point to the series, keeping it sorted. An existing value at
// the same timestamp is overwritten.
func (s *Series) Append(t time.Time, v decimal.NullDecimal) *Series {
	t = t.UTC()
	for i, st := range s.times {
		if st.Equal(t) {
			s.values[i] = v
			return s
		}
	}
	s.times, s.values = append(s.times, t), append(s.values, v)
	sort.Sort(chronologicalSeries{s})
	return s
}

// AppendValue adds a present value at t.
func (s *Series) AppendValue(t time.Time, v decimal.Decimal) *Series {
	return s.Append(t, decimal.NewNullDecimal(v))
}

// AppendMissing records a gap at t.
func (s *Series) AppendMissing(t time.Time) *Series {
	return s.Append(t, decimal.NullDecimal{})
}

type chronologicalSeries struct{ *Series }

func (c chronologicalSeries) Len() int           { return len(c.times) }
func (c chronologicalSeries) Less(i, j int) bool { return c.times[i].Before(c.times[j]) }
func (c chronologicalSeries) Swap(i, j int) {
	c.times[i], c.times[j] = c.times[j], c.times[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.times) }

// At returns the i-th point in chronological order.
func (s Series) At(i int) (time.Time, decimal.NullDecimal) {
	return s.times[i], s.values[i]
}

// First returns the earliest point. It fails with ErrEmpty on an empty series.
func (s Series) First() (time.Time, decimal.NullDecimal, error) {
	if len(s.times) == 0 {
		return time.Time{}, decimal.NullDecimal{}, ErrEmpty
	}
	return s.times[0], s.values[0], nil
}

// Last returns the latest point. It fails with ErrEmpty on an empty series.
func (s Series) Last() (time.Time, decimal.NullDecimal, error) {
	if len(s.times) == 0 {
		return time.Time{}, decimal.NullDecimal{}, ErrEmpty
	}
	return s.times[len(s.times)-1], s.values[len(s.values)-1], nil
}

// Get returns the value at t and whether a point exists there.
func (s Series) Get(t time.Time) (decimal.NullDecimal, bool) {
	t = t.UTC()
	for i, st := range s.times {
		if st.Equal(t) {
			return s.values[i], true
		}
	}
	return decimal.NullDecimal{}, false
}

// Times returns a copy of the timestamps in chronological order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.times))
	copy(out, s.times)
	return out
}

// Sum returns the sum of all present values. Missing cells contribute nothing.
func (s Series) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.values {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

// Normalize returns the series divided by its first value, so the first point
// is exactly 1. It fails with ErrEmpty on an empty series, ErrMissingBaseline
// when the first value is a gap and ErrZeroBaseline when it is zero.
func (s Series) Normalize() (Series, error) {
	_, first, err := s.First()
	if err != nil {
		return Series{}, err
	}
	if !first.Valid {
		return Series{}, ErrMissingBaseline
	}
	if first.Decimal.IsZero() {
		return Series{}, ErrZeroBaseline
	}

	var out Series
	for i, t := range s.times {
		v := s.values[i]
		if v.Valid {
			out.AppendValue(t, v.Decimal.Div(first.Decimal))
		} else {
			out.AppendMissing(t)
		}
	}
	return out, nil
}

// Scale returns the series with every present value multiplied by k.
func (s Series) Scale(k decimal.Decimal) Series {
	var out Series
	for i, t := range s.times {
		v := s.values[i]
		if v.Valid {
			out.AppendValue(t, v.Decimal.Mul(k))
		} else {
			out.AppendMissing(t)
		}
	}
	return out
}

// AddOuter sums the series over the union of both time axes. A timestamp
// missing from one side, or present as a gap, contributes zero; every point
// of the result is therefore present.
func (s Series) AddOuter(o Series) Series {
	var out Series
	i, j := 0, 0
	for i < len(s.times) || j < len(o.times) {
		switch {
		case j >= len(o.times) || (i < len(s.times) && s.times[i].Before(o.times[j])):
			out.AppendValue(s.times[i], orZero(s.values[i]))
			i++
		case i >= len(s.times) || o.times[j].Before(s.times[i]):
			out.AppendValue(o.times[j], orZero(o.values[j]))
			j++
		default: // same timestamp
			out.AppendValue(s.times[i], orZero(s.values[i]).Add(orZero(o.values[j])))
			i, j = i+1, j+1
		}
	}
	return out
}

// NonZero returns the series restricted to present, non-zero values.
func (s Series) NonZero() Series {
	var out Series
	for i, t := range s.times {
		if v := s.values[i]; v.Valid && !v.Decimal.IsZero() {
			out.AppendValue(t, v.Decimal)
		}
	}
	return out
}

// MonthlyBuckets sums the present values into calendar-month buckets. The
// bucket key is the first day of the month (UTC) containing each timestamp.
// Months with no points are absent from the result.
func (s Series) MonthlyBuckets() Series {
	var out Series
	for i, t := range s.times {
		v := s.values[i]
		if !v.Valid {
			continue
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		if cur, ok := out.Get(month); ok {
			out.AppendValue(month, cur.Decimal.Add(v.Decimal))
		} else {
			out.AppendValue(month, v.Decimal)
		}
	}
	return out
}

// AlignNonNull restricts both series to the timestamps where neither has a
// gap and returns the two aligned value sequences as floats, ready for
// statistics routines.
func (s Series) AlignNonNull(o Series) (xs, ys []float64) {
	for i, t := range s.times {
		v := s.values[i]
		if !v.Valid {
			continue
		}
		ov, ok := o.Get(t)
		if !ok || !ov.Valid {
			continue
		}
		xs = append(xs, v.Decimal.InexactFloat64())
		ys = append(ys, ov.Decimal.InexactFloat64())
	}
	return xs, ys
}

// Equal reports whether both series hold the same points.
func (s Series) Equal(o Series) bool {
	if len(s.times) != len(o.times) {
		return false
	}
	for i := range s.times {
		if !s.times[i].Equal(o.times[i]) {
			return false
		}
		if s.values[i].Valid != o.values[i].Valid {
			return false
		}
		if s.values[i].Valid && !s.values[i].Decimal.Equal(o.values[i].Decimal) {
			return false
		}
	}
	return true
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}
