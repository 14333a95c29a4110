// utils/commission.go
package utils

import (
	"time"

	"github.com/salescomm/commission_backend/models"
)

// DefaultAssignedTarget is the fallback sales target used when an executive
// has no target assigned (or it is zero/negative).
const DefaultAssignedTarget = 10000.0

// ResolveTarget applies the default-target fallback
func ResolveTarget(assignedTarget float64) float64 {
	if assignedTarget <= 0 {
		return DefaultAssignedTarget
	}
	return assignedTarget
}

// TotalSales sums the amounts of every sale, regardless of sold/not_sold
// status. Filtering by status is deliberately not done here.
func TotalSales(sales []models.Sale) float64 {
	var total float64
	for _, sale := range sales {
		total += sale.SaleAmount
	}
	return total
}

// CalculateAchievement returns the target-achievement percentage.
// A zero target yields 0, never a division error.
func CalculateAchievement(salesTotal, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return (salesTotal / target) * 100
}

// FindApplicableRule scans rules sorted ascending by targetFrom and returns
// the first rule whose band contains the achievement percentage. When no band
// matches (gaps in configured ranges, or achievement above every bounded
// band), the last rule in sorted order is used as the top band. Returns nil
// only when the rule table is empty.
func FindApplicableRule(rules []models.CommissionRule, achievement float64) *models.CommissionRule {
	if len(rules) == 0 {
		return nil
	}

	for i := range rules {
		rule := rules[i]
		if achievement >= rule.TargetFrom && (rule.TargetTo == nil || achievement <= *rule.TargetTo) {
			return &rules[i]
		}
	}

	// No band matched: fall back to the highest rule
	return &rules[len(rules)-1]
}

// ComputeCommissionAmount applies a percentage rate to the sales total
func ComputeCommissionAmount(salesTotal, commissionRate float64) float64 {
	return salesTotal * commissionRate / 100
}

// SalesBreakdown maps sales into the per-product lines used in calculation
// responses and statements
func SalesBreakdown(sales []models.Sale) []models.SaleBreakdownItem {
	breakdown := make([]models.SaleBreakdownItem, 0, len(sales))
	for _, sale := range sales {
		breakdown = append(breakdown, models.SaleBreakdownItem{
			ProductName: sale.ProductName,
			Amount:      sale.SaleAmount,
			Quantity:    sale.Quantity,
			Date:        sale.SaleDate,
		})
	}
	return breakdown
}

// StatementPeriod returns the first and last day of the month containing now,
// the reporting period shown on commission statements
func StatementPeriod(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}
