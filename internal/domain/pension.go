package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicatePensionSource is returned when a scenario already links the account.
var ErrDuplicatePensionSource = errors.New("pension source already linked for account")

// ErrUnknownPensionType is returned when parsing a pension type that is not one of the known products.
var ErrUnknownPensionType = errors.New("unknown pension type")

// PensionType enumerates the private pension products a scenario can hold.
// Each type also has a legacy manual field on Scenario.
type PensionType int

const (
	PensionTypeRiester PensionType = iota + 1
	PensionTypeRuerup
	PensionTypeBetriebsrente
)

// PensionTypes lists every known pension type in display order.
var PensionTypes = []PensionType{PensionTypeRiester, PensionTypeRuerup, PensionTypeBetriebsrente}

var pensionTypeKeys = map[PensionType]string{
	PensionTypeRiester:       "riester",
	PensionTypeRuerup:        "ruerup",
	PensionTypeBetriebsrente: "betriebsrente",
}

var pensionTypeLabels = map[PensionType][2]string{
	PensionTypeRiester:       {"Riester", "Riester Pension (Riester-Rente)"},
	PensionTypeRuerup:        {"Rürup", "Rürup Pension (Basisrente)"},
	PensionTypeBetriebsrente: {"Betriebsrente", "Occupational Pension (Betriebliche Altersvorsorge)"},
}

// ParsePensionType parses the lowercase key of a pension type.
func ParsePensionType(s string) (PensionType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, k := range pensionTypeKeys {
		if k == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPensionType, s)
}

// String returns the lowercase key, e.g. "riester".
func (t PensionType) String() string {
	if k, ok := pensionTypeKeys[t]; ok {
		return k
	}
	return fmt.Sprintf("PensionType(%d)", int(t))
}

// ShortLabel returns the short display label
func (t PensionType) ShortLabel() string { return pensionTypeLabels[t][0] }

// LongLabel returns the long display label
func (t PensionType) LongLabel() string { return pensionTypeLabels[t][1] }

// Valid reports whether t is one of the known pension types.
func (t PensionType) Valid() bool {
	_, ok := pensionTypeKeys[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler
func (t PensionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPensionType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *PensionType) UnmarshalText(text []byte) error {
	v, err := ParsePensionType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PensionAccount is the account-side view of a pension product, supplied by
// the caller. Its payout fields are the defaults a PensionSource copies.
type PensionAccount struct {
	ID                    uuid.UUID        `yaml:"id" json:"id"`
	Name                  string           `yaml:"name" json:"name"`
	Type                  PensionType      `yaml:"type" json:"type"`
	ExpectedMonthlyPayout *decimal.Decimal `yaml:"expected_monthly_payout,omitempty" json:"expected_monthly_payout,omitempty"`
	RetirementDate        *time.Time       `yaml:"retirement_date,omitempty" json:"retirement_date,omitempty"`
}

// PensionSource links a scenario to one pension account. Payout values are
// copied from the account once when the source is created.
type PensionSource struct {
	ID                    uuid.UUID        `json:"id"`
	Account               PensionAccount   `json:"account"`
	ExpectedMonthlyPayout *decimal.Decimal `json:"expected_monthly_payout,omitempty"`
	PayoutStartDate       *time.Time       `json:"payout_start_date,omitempty"`
}

// NewPensionSource creates a source for the account. Blank payout or start
// date are filled from the account's stored pension data.
func NewPensionSource(account PensionAccount, payout *decimal.Decimal, start *time.Time) PensionSource {
	src := PensionSource{
		ID:                    uuid.New(),
		Account:               account,
		ExpectedMonthlyPayout: payout,
		PayoutStartDate:       start,
	}
	if src.ExpectedMonthlyPayout == nil && account.ExpectedMonthlyPayout != nil {
		v := *account.ExpectedMonthlyPayout
		src.ExpectedMonthlyPayout = &v
	}
	if src.PayoutStartDate == nil && account.RetirementDate != nil {
		d := *account.RetirementDate
		src.PayoutStartDate = &d
	}
	return src
}

// Type returns the pension type of the linked account
func (s PensionSource) Type() PensionType { return s.Account.Type }

// HasPayout reports whether the source carries a non-zero monthly payout.
func (s PensionSource) HasPayout() bool {
	return s.ExpectedMonthlyPayout != nil && !s.ExpectedMonthlyPayout.IsZero()
}

// Payout returns the monthly payout, zero when unset.
func (s PensionSource) Payout() decimal.Decimal {
	if s.ExpectedMonthlyPayout == nil {
		return decimal.Zero
	}
	return *s.ExpectedMonthlyPayout
}

// HasCustomValues reports whether the source diverges from the live account
// data it was populated from.
func (s PensionSource) HasCustomValues(live PensionAccount) bool {
	return !decimalPtrEqual(s.ExpectedMonthlyPayout, live.ExpectedMonthlyPayout) ||
		!datePtrEqual(s.PayoutStartDate, live.RetirementDate)
}

// Validate checks the source's own invariants.
func (s PensionSource) Validate() error {
	if !s.Account.Type.Valid() {
		return fmt.Errorf("%w for account %q", ErrUnknownPensionType, s.Account.Name)
	}
	if s.ExpectedMonthlyPayout != nil && s.ExpectedMonthlyPayout.IsNegative() {
		return fmt.Errorf("expected monthly payout for %q must be >= 0", s.Account.Name)
	}
	return nil
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
