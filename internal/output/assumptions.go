package output

import (
	"fmt"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/domain"
	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
)

// Assumptions lists the rates and contribution a scenario's outputs rest on,
// for rendering alongside the results.
func Assumptions(s *domain.Scenario) []string {
	out := []string{
		fmt.Sprintf("Portfolio withdrawal rate: %s%% per year", s.WithdrawalRateOrDefault().StringFixed(1)),
		fmt.Sprintf("Portfolio growth: %s%% per year", s.GrowthRateOrDefault().StringFixed(1)),
		fmt.Sprintf("Inflation: %s%% per year", s.InflationRateOrDefault().StringFixed(1)),
	}
	if realRate := calculation.RealPortfolioGrowthRate(s); realRate != nil {
		out = append(out, fmt.Sprintf("Real growth after inflation: %s%% per year", realRate.StringFixed(2)))
	}
	if s.MonthlyContribution != nil {
		cur := rpdecimal.CurrencyOf(s.CurrencyCode())
		out = append(out, fmt.Sprintf("Monthly contribution: %s", cur.Display(*s.MonthlyContribution)))
	} else {
		out = append(out, "Monthly contribution: median monthly surplus")
	}
	return out
}
