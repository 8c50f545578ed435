package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/retirement-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// dateValue decodes a calendar date from YAML, JSON or TOML. Quoted and
// unquoted YYYY-MM-DD are accepted, as are RFC 3339 timestamps and TOML
// local dates.
type dateValue time.Time

func (d *dateValue) UnmarshalYAML(n *yaml.Node) error {
	t, err := parseDate(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = dateValue(t)
	return nil
}

func (d *dateValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case time.Time:
		*d = dateValue(dateutil.Normalize(x))
		return nil
	case string:
		t, err := parseDate(x)
		if err != nil {
			return err
		}
		*d = dateValue(t)
		return nil
	default:
		return fmt.Errorf("invalid date %v", v)
	}
}

func (d *dateValue) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := dateutil.Parse(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return dateutil.Normalize(t), nil
}

// decimalValue decodes an amount or rate without going through float64
// where the source format allows it.
type decimalValue decimal.Decimal

func (d *decimalValue) UnmarshalYAML(n *yaml.Node) error {
	v, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", n.Line, n.Value)
	}
	*d = decimalValue(v)
	return nil
}

func (d *decimalValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*d = decimalValue(decimal.NewFromInt(x))
	case float64:
		*d = decimalValue(decimal.NewFromFloat(x))
	case string:
		p, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return fmt.Errorf("invalid number %q", x)
		}
		*d = decimalValue(p)
	default:
		return fmt.Errorf("invalid number %v", v)
	}
	return nil
}

func (d *decimalValue) ptr() *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := decimal.Decimal(*d)
	return &v
}

func (d *decimalValue) or(def decimal.Decimal) decimal.Decimal {
	if d == nil {
		return def
	}
	return decimal.Decimal(*d)
}
