package output

import (
	"time"

	"github.com/rpgo/retirement-planner/pkg/dateutil"
	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Point is one dated value of a chart series. Amounts are decimal strings
// rounded to the currency's minor unit.
type Point struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// amounts renders values for one currency
type amounts struct {
	cur rpdecimal.Currency
}

func amountsFor(code string) amounts {
	return amounts{cur: rpdecimal.CurrencyOf(code)}
}

func (a amounts) of(d decimal.Decimal) string {
	return a.cur.Round(d).StringFixed(a.cur.Fraction())
}

func (a amounts) ptr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := a.of(*d)
	return &s
}

func (a amounts) orZero(d *decimal.Decimal) string {
	if d == nil {
		return a.of(decimal.Zero)
	}
	return a.of(*d)
}

func (a amounts) point(date time.Time, d decimal.Decimal) Point {
	return Point{Date: dateutil.Format(date), Value: a.of(d)}
}

// percent renders a rate with the given number of decimal places
func percent(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func percentPtr(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := percent(*d, places)
	return &s
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dateutil.Format(*t)
	return &s
}
