package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBausparContract_Savings(t *testing.T) {
	b := BausparContract{Bausparsumme: dec("50000"), Phase: BausparSaving, Balance: dec("10000")}

	assertDecimal(t, "40", b.SavingsTargetPercent())
	assertDecimal(t, "20000", b.SavingsTargetAmount())
	assertDecimal(t, "50", b.SavingsProgressPercent())
	assertDecimal(t, "40000", b.AvailableLoanAmount())
	assertDecimal(t, "200", b.SuggestedMonthlyContribution())

	b.MinimumSavingsPercent = decp("50")
	assertDecimal(t, "25000", b.SavingsTargetAmount())
	assertDecimal(t, "40", b.SavingsProgressPercent())

	b.Balance = dec("60000")
	assertDecimal(t, "100", b.SavingsProgressPercent())
	assertDecimal(t, "0", b.AvailableLoanAmount())
}

func TestBausparContract_AllocationReady(t *testing.T) {
	today := day(2025, time.January, 15)
	months := 24

	tests := []struct {
		name   string
		mutate func(b *BausparContract)
		want   bool
	}{
		{"all conditions met", func(b *BausparContract) {}, true},
		{"savings short", func(b *BausparContract) { b.Balance = dec("19999") }, false},
		{"minimum period running", func(b *BausparContract) { b.ContractStartDate = dayp(2024, time.January, 1) }, false},
		{"bewertungszahl too low", func(b *BausparContract) { b.CurrentBewertungszahl = decp("100") }, false},
		{"already allocated", func(b *BausparContract) { b.Phase = BausparAllocated }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BausparContract{
				Bausparsumme:               dec("50000"),
				Phase:                      BausparSaving,
				Balance:                    dec("20000"),
				ContractStartDate:          dayp(2020, time.January, 1),
				MinimumSavingsPeriodMonths: &months,
				CurrentBewertungszahl:      decp("130"),
				MinimumBewertungszahl:      decp("120"),
			}
			tt.mutate(&b)
			assert.Equal(t, tt.want, b.AllocationReady(today))
		})
	}
}

func TestBausparContract_MinimumPeriod(t *testing.T) {
	months := 24
	b := BausparContract{ContractStartDate: dayp(2024, time.January, 1), MinimumSavingsPeriodMonths: &months}

	assert.False(t, b.MinimumSavingsPeriodMet(day(2025, time.January, 15)))
	assert.Equal(t, 12, b.MonthsUntilMinimumPeriod(day(2025, time.January, 15)))
	assert.True(t, b.MinimumSavingsPeriodMet(day(2026, time.January, 1)))
	assert.Equal(t, 0, b.MonthsUntilMinimumPeriod(day(2026, time.January, 1)))

	assert.True(t, BausparContract{}.MinimumSavingsPeriodMet(day(2025, time.January, 1)))
}

func TestBausparContract_Durations(t *testing.T) {
	today := day(2025, time.January, 1)
	b := BausparContract{
		ContractStartDate:      dayp(2020, time.January, 1),
		ExpectedAllocationDate: dayp(2027, time.January, 1),
	}

	assertDecimal(t, "5", *b.ContractDurationYears(today))
	assertDecimal(t, "2", *b.YearsUntilAllocation(today))
	assertDecimal(t, "0", *b.YearsUntilAllocation(day(2028, time.January, 1)))
	assert.Nil(t, BausparContract{}.YearsUntilAllocation(today))
	assert.Nil(t, BausparContract{}.ContractDurationYears(today))
}

func TestBausparContract_Subsidies(t *testing.T) {
	b := BausparContract{WohnungsbauPraemieEligible: true, VermoegenswirksameLeistungen: true}
	assert.Equal(t, []string{"Wohnungsbauprämie", "Vermögenswirksame Leistungen"}, b.ActiveSubsidies())
	assert.True(t, b.HasSubsidies())
	assert.False(t, BausparContract{}.HasSubsidies())
}

func TestBausparContract_Validate(t *testing.T) {
	assert.NoError(t, BausparContract{Bausparsumme: dec("10000"), Phase: BausparLoan}.Validate())

	err := BausparContract{Phase: "waiting", MinimumSavingsPercent: decp("120")}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bausparsumme")
	assert.Contains(t, err.Error(), "waiting")
	assert.Contains(t, err.Error(), "minimum savings percent")

	assert.Equal(t, "Loan Phase (Darlehensphase)", BausparContract{Phase: BausparLoan}.PhaseDescription())
}
