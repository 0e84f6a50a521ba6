package timeseries

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func barOf(open, close string) Bar {
	var b Bar
	if open != "" {
		b.Open = decimal.NewNullDecimal(dec(open))
	}
	if close != "" {
		b.Close = decimal.NewNullDecimal(dec(close))
	}
	return b
}

func TestTableAppendKeepsOrder(t *testing.T) {
	var tbl Table
	tbl.Append(day(2), barOf("2", "2"))
	tbl.Append(day(1), barOf("1", "1"))

	at, _ := tbl.At(0)
	if !at.Equal(day(1)) {
		t.Errorf("At(0) time = %v, want %v", at, day(1))
	}
}

func TestTableColumn(t *testing.T) {
	var tbl Table
	tbl.Append(day(1), barOf("10", "11"))
	tbl.Append(day(2), barOf("", "12"))

	closes := tbl.Column(FieldClose)
	want := seriesOf(map[int]string{1: "11", 2: "12"})
	if !closes.Equal(want) {
		t.Errorf("Column(Close) = %+v, want %+v", closes, want)
	}

	opens := tbl.Column(FieldOpen)
	v, _ := opens.Get(day(2))
	if v.Valid {
		t.Error("open gap became present, want missing")
	}
}

func TestTableNormalizeByFirstRow(t *testing.T) {
	var tbl Table
	tbl.Append(day(1), barOf("10", "20"))
	tbl.Append(day(2), barOf("15", "10"))

	n, err := tbl.NormalizeByFirstRow()
	if err != nil {
		t.Fatalf("NormalizeByFirstRow() err = %v", err)
	}

	_, first := n.At(0)
	if !first.Open.Decimal.Equal(dec("1")) || !first.Close.Decimal.Equal(dec("1")) {
		t.Errorf("first row = %+v, want all 1", first)
	}
	_, second := n.At(1)
	if !second.Open.Decimal.Equal(dec("1.5")) || !second.Close.Decimal.Equal(dec("0.5")) {
		t.Errorf("second row = %+v, want open 1.5 close 0.5", second)
	}
}

func TestTableNormalizeByFirstRowZeroColumnBecomesGaps(t *testing.T) {
	var tbl Table
	bar := barOf("10", "10")
	bar.Dividends = decimal.NewNullDecimal(decimal.Zero)
	tbl.Append(day(1), bar)
	bar2 := barOf("20", "20")
	bar2.Dividends = decimal.NewNullDecimal(dec("0.5"))
	tbl.Append(day(2), bar2)

	n, err := tbl.NormalizeByFirstRow()
	if err != nil {
		t.Fatalf("NormalizeByFirstRow() err = %v", err)
	}

	for i := 0; i < n.Len(); i++ {
		_, b := n.At(i)
		if b.Dividends.Valid {
			t.Errorf("row %d dividends = %v, want missing", i, b.Dividends.Decimal)
		}
	}
}

func TestTableNormalizeEmpty(t *testing.T) {
	var tbl Table
	if _, err := tbl.NormalizeByFirstRow(); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestTableAddOuter(t *testing.T) {
	var a, b Table
	a.Append(day(1), barOf("1", "1"))
	a.Append(day(2), barOf("2", "2"))
	b.Append(day(2), barOf("20", "20"))
	b.Append(day(3), barOf("30", "30"))

	sum := a.AddOuter(b)

	if sum.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", sum.Len())
	}
	_, mid := sum.At(1)
	if !mid.Close.Valid || !mid.Close.Decimal.Equal(dec("22")) {
		t.Errorf("mid close = %v, want 22", mid.Close)
	}
	_, last := sum.At(2)
	if !last.Close.Valid || !last.Close.Decimal.Equal(dec("30")) {
		t.Errorf("last close = %v, want 30", last.Close)
	}
}

func TestTableScaleKeepsGaps(t *testing.T) {
	var tbl Table
	tbl.Append(day(1), barOf("", "4"))

	got := tbl.Scale(dec("0.5"))

	_, bar := got.At(0)
	if bar.Open.Valid {
		t.Error("scaled open gap became present, want missing")
	}
	if !bar.Close.Decimal.Equal(dec("2")) {
		t.Errorf("scaled close = %v, want 2", bar.Close.Decimal)
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	var tbl Table
	tbl.Append(day(1), barOf("10", "11"))
	tbl.Append(day(2), barOf("", "12"))

	data, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("Marshal() err = %v", err)
	}

	var got Table
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() err = %v", err)
	}
	if !got.Equal(tbl) {
		t.Errorf("round trip = %+v, want %+v", got, tbl)
	}
}

func TestTableUnmarshalLengthMismatch(t *testing.T) {
	var got Table
	err := json.Unmarshal([]byte(`{"times":["2025-01-01T00:00:00Z"],"bars":[]}`), &got)
	if err == nil {
		t.Error("Unmarshal() err = nil, want error")
	}
}

func TestFieldString(t *testing.T) {
	if got := FieldStockSplits.String(); got != "Stock Splits" {
		t.Errorf("String() = %q, want %q", got, "Stock Splits")
	}
	if got := len(Fields()); got != 7 {
		t.Errorf("len(Fields()) = %d, want 7", got)
	}
}
