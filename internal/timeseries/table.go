package timeseries

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies one column of a Table.
type Field int

const (
	FieldOpen Field = iota
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
	FieldDividends
	FieldStockSplits

	numFields
)

// String returns the column name as the data provider spells it.
func (f Field) String() string {
	switch f {
	case FieldOpen:
		return "Open"
	case FieldHigh:
		return "High"
	case FieldLow:
		return "Low"
	case FieldClose:
		return "Close"
	case FieldVolume:
		return "Volume"
	case FieldDividends:
		return "Dividends"
	case FieldStockSplits:
		return "Stock Splits"
	}
	return "Unknown"
}

// Fields lists every column of a Table in order.
func Fields() []Field {
	out := make([]Field, 0, numFields)
	for f := FieldOpen; f < numFields; f++ {
		out = append(out, f)
	}
	return out
}

// Bar is one row of price history. Cells reported as null by the provider are
// kept as gaps rather than zeroes.
type Bar struct {
	Open        decimal.NullDecimal `json:"open"`
	High        decimal.NullDecimal `json:"high"`
	Low         decimal.NullDecimal `json:"low"`
	Close       decimal.NullDecimal `json:"close"`
	Volume      decimal.NullDecimal `json:"volume"`
	Dividends   decimal.NullDecimal `json:"dividends"`
	StockSplits decimal.NullDecimal `json:"stockSplits"`
}

// Cell returns the value of the given column.
func (b Bar) Cell(f Field) decimal.NullDecimal {
	switch f {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	case FieldClose:
		return b.Close
	case FieldVolume:
		return b.Volume
	case FieldDividends:
		return b.Dividends
	case FieldStockSplits:
		return b.StockSplits
	}
	return decimal.NullDecimal{}
}

// SetCell sets the value of the given column.
func (b *Bar) SetCell(f Field, v decimal.NullDecimal) {
	switch f {
	case FieldOpen:
		b.Open = v
	case FieldHigh:
		b.High = v
	case FieldLow:
		b.Low = v
	case FieldClose:
		b.Close = v
	case FieldVolume:
		b.Volume = v
	case FieldDividends:
		b.Dividends = v
	case FieldStockSplits:
		b.StockSplits = v
	}
}

// Table is a chronologically sorted price history with a fixed set of
// columns. Row timestamps are unique and ascending.
type Table struct {
	times []time.Time
	bars  []Bar
}

// Append adds a row, keeping the table sorted. An existing row at the same
// timestamp is overwritten.
func (t *Table) Append(at time.Time, bar Bar) *Table {
	at = at.UTC()
	for i, tt := range t.times {
		if tt.Equal(at) {
			t.bars[i] = bar
			return t
		}
	}
	t.times, t.bars = append(t.times, at), append(t.bars, bar)
	sort.Sort(chronologicalTable{t})
	return t
}

type chronologicalTable struct{ *Table }

func (c chronologicalTable) Len() int           { return len(c.times) }
func (c chronologicalTable) Less(i, j int) bool { return c.times[i].Before(c.times[j]) }
func (c chronologicalTable) Swap(i, j int) {
	c.times[i], c.times[j] = c.times[j], c.times[i]
	c.bars[i], c.bars[j] = c.bars[j], c.bars[i]
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.times) }

// At returns the i-th row in chronological order.
func (t Table) At(i int) (time.Time, Bar) { return t.times[i], t.bars[i] }

// First returns the earliest row. It fails with ErrEmpty on an empty table.
func (t Table) First() (time.Time, Bar, error) {
	if len(t.times) == 0 {
		return time.Time{}, Bar{}, ErrEmpty
	}
	return t.times[0], t.bars[0], nil
}

// Last returns the latest row. It fails with ErrEmpty on an empty table.
func (t Table) Last() (time.Time, Bar, error) {
	if len(t.times) == 0 {
		return time.Time{}, Bar{}, ErrEmpty
	}
	return t.times[len(t.times)-1], t.bars[len(t.bars)-1], nil
}

// Interval returns the first and last row timestamps.
func (t Table) Interval() (start, end time.Time, err error) {
	if len(t.times) == 0 {
		return time.Time{}, time.Time{}, ErrEmpty
	}
	return t.times[0], t.times[len(t.times)-1], nil
}

// Column extracts one column as a Series, gaps included.
func (t Table) Column(f Field) Series {
	var out Series
	for i, at := range t.times {
		out.Append(at, t.bars[i].Cell(f))
	}
	return out
}

// Scale returns the table with every present cell multiplied by k.
func (t Table) Scale(k decimal.Decimal) Table {
	var out Table
	for i, at := range t.times {
		var bar Bar
		for _, f := range Fields() {
			if c := t.bars[i].Cell(f); c.Valid {
				bar.SetCell(f, decimal.NewNullDecimal(c.Decimal.Mul(k)))
			}
		}
		out.Append(at, bar)
	}
	return out
}

// AddOuter sums two tables cell-wise over the union of their time axes. Rows
// absent from one side, and gap cells, contribute zero, so every cell of the
// result is present.
func (t Table) AddOuter(o Table) Table {
	var out Table
	i, j := 0, 0
	for i < len(t.times) || j < len(o.times) {
		switch {
		case j >= len(o.times) || (i < len(t.times) && t.times[i].Before(o.times[j])):
			out.Append(t.times[i], addBars(t.bars[i], Bar{}))
			i++
		case i >= len(t.times) || o.times[j].Before(t.times[i]):
			out.Append(o.times[j], addBars(Bar{}, o.bars[j]))
			j++
		default:
			out.Append(t.times[i], addBars(t.bars[i], o.bars[j]))
			i, j = i+1, j+1
		}
	}
	return out
}

func addBars(a, b Bar) Bar {
	var out Bar
	for _, f := range Fields() {
		sum := orZero(a.Cell(f)).Add(orZero(b.Cell(f)))
		out.SetCell(f, decimal.NewNullDecimal(sum))
	}
	return out
}

// NormalizeByFirstRow divides every row by the first row column-wise, so the
// first row reads 1 in every column. Columns whose first cell is a gap or
// zero cannot be normalized and become all gaps. It fails with ErrEmpty on an
// empty table.
func (t Table) NormalizeByFirstRow() (Table, error) {
	_, first, err := t.First()
	if err != nil {
		return Table{}, err
	}

	var out Table
	for i, at := range t.times {
		var bar Bar
		for _, f := range Fields() {
			base := first.Cell(f)
			if !base.Valid || base.Decimal.IsZero() {
				continue
			}
			if c := t.bars[i].Cell(f); c.Valid {
				bar.SetCell(f, decimal.NewNullDecimal(c.Decimal.Div(base.Decimal)))
			}
		}
		out.Append(at, bar)
	}
	return out, nil
}

// Equal reports whether both tables hold the same rows.
func (t Table) Equal(o Table) bool {
	if len(t.times) != len(o.times) {
		return false
	}
	for i := range t.times {
		if !t.times[i].Equal(o.times[i]) {
			return false
		}
		for _, f := range Fields() {
			a, b := t.bars[i].Cell(f), o.bars[i].Cell(f)
			if a.Valid != b.Valid {
				return false
			}
			if a.Valid && !a.Decimal.Equal(b.Decimal) {
				return false
			}
		}
	}
	return true
}

type tableJSON struct {
	Times []time.Time `json:"times"`
	Bars  []Bar       `json:"bars"`
}

// MarshalJSON implements json.Marshaler so tables can be cached.
func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Times: t.times, Bars: t.bars})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Times) != len(raw.Bars) {
		return errors.New("lengths times != bars")
	}
	t.times, t.bars = nil, nil
	for i, at := range raw.Times {
		t.Append(at, raw.Bars[i])
	}
	return nil
}
