package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescomm/commission_backend/models"
)

func ratePtr(v float64) *float64 {
	return &v
}

// standardRules mirrors a typical tiered rate table: 0-50% -> 0%,
// 50-80% -> 1%, 80-100% -> 2%, above 100% -> 3% (unbounded top band).
func standardRules() []models.CommissionRule {
	return []models.CommissionRule{
		{TargetFrom: 0, TargetTo: ratePtr(50), CommissionRate: 0},
		{TargetFrom: 50, TargetTo: ratePtr(80), CommissionRate: 1},
		{TargetFrom: 80, TargetTo: ratePtr(100), CommissionRate: 2},
		{TargetFrom: 100, TargetTo: nil, CommissionRate: 3},
	}
}

func TestResolveTarget(t *testing.T) {
	assert.Equal(t, 10000.0, ResolveTarget(0))
	assert.Equal(t, 10000.0, ResolveTarget(-500))
	assert.Equal(t, 20000.0, ResolveTarget(20000))
}

func TestTotalSalesIncludesAllStatuses(t *testing.T) {
	sales := []models.Sale{
		{SaleAmount: 5000, Status: models.SaleStatusSold},
		{SaleAmount: 3000, Status: models.SaleStatusNotSold},
		{SaleAmount: 1500, Status: models.SaleStatusSold},
	}
	assert.Equal(t, 9500.0, TotalSales(sales))
}

func TestTotalSalesEmpty(t *testing.T) {
	assert.Equal(t, 0.0, TotalSales(nil))
	assert.Equal(t, 0.0, TotalSales([]models.Sale{}))
}

func TestCalculateAchievement(t *testing.T) {
	assert.Equal(t, 95.0, CalculateAchievement(9500, 10000))
	assert.Equal(t, 120.0, CalculateAchievement(12000, 10000))
	assert.Equal(t, 0.0, CalculateAchievement(5000, 0))
	assert.Equal(t, 0.0, CalculateAchievement(5000, -1))
}

func TestFindApplicableRuleBands(t *testing.T) {
	rules := standardRules()

	rule := FindApplicableRule(rules, 95)
	require.NotNil(t, rule)
	assert.Equal(t, 2.0, rule.CommissionRate)

	rule = FindApplicableRule(rules, 120)
	require.NotNil(t, rule)
	assert.Equal(t, 3.0, rule.CommissionRate)

	rule = FindApplicableRule(rules, 0)
	require.NotNil(t, rule)
	assert.Equal(t, 0.0, rule.CommissionRate)
}

func TestFindApplicableRuleBoundaries(t *testing.T) {
	rules := standardRules()

	// A boundary value belongs to the first band that contains it
	rule := FindApplicableRule(rules, 50)
	require.NotNil(t, rule)
	assert.Equal(t, 0.0, rule.CommissionRate)

	rule = FindApplicableRule(rules, 100)
	require.NotNil(t, rule)
	assert.Equal(t, 2.0, rule.CommissionRate)
}

func TestFindApplicableRuleGapFallsBackToLast(t *testing.T) {
	rules := []models.CommissionRule{
		{TargetFrom: 0, TargetTo: ratePtr(40), CommissionRate: 0},
		{TargetFrom: 60, TargetTo: ratePtr(100), CommissionRate: 2},
	}

	// 50 falls in the gap between the bands: the last rule wins
	rule := FindApplicableRule(rules, 50)
	require.NotNil(t, rule)
	assert.Equal(t, 2.0, rule.CommissionRate)
}

func TestFindApplicableRuleEmptyTable(t *testing.T) {
	assert.Nil(t, FindApplicableRule(nil, 95))
	assert.Nil(t, FindApplicableRule([]models.CommissionRule{}, 95))
}

func TestComputeCommissionAmount(t *testing.T) {
	assert.Equal(t, 190.0, ComputeCommissionAmount(9500, 2))
	assert.Equal(t, 360.0, ComputeCommissionAmount(12000, 3))
	assert.Equal(t, 0.0, ComputeCommissionAmount(9500, 0))
}

// TestCommissionPipeline walks the full computation the calculate endpoint
// performs, using the worked example: 9500 in sales against a 10000 target.
func TestCommissionPipeline(t *testing.T) {
	sales := []models.Sale{
		{SaleAmount: 6000, Status: models.SaleStatusSold},
		{SaleAmount: 3500, Status: models.SaleStatusNotSold},
	}

	total := TotalSales(sales)
	target := ResolveTarget(0)
	achievement := CalculateAchievement(total, target)
	rule := FindApplicableRule(standardRules(), achievement)
	require.NotNil(t, rule)

	assert.Equal(t, 9500.0, total)
	assert.Equal(t, 95.0, achievement)
	assert.Equal(t, 2.0, rule.CommissionRate)
	assert.Equal(t, 190.0, ComputeCommissionAmount(total, rule.CommissionRate))
}

func TestCommissionPipelineOverTarget(t *testing.T) {
	sales := []models.Sale{{SaleAmount: 12000, Status: models.SaleStatusSold}}

	total := TotalSales(sales)
	achievement := CalculateAchievement(total, ResolveTarget(10000))
	rule := FindApplicableRule(standardRules(), achievement)
	require.NotNil(t, rule)

	assert.Equal(t, 120.0, achievement)
	assert.Equal(t, 3.0, rule.CommissionRate)
	assert.Equal(t, 360.0, ComputeCommissionAmount(total, rule.CommissionRate))
}

func TestSalesBreakdown(t *testing.T) {
	date := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		{ProductName: "Router X1", SaleAmount: 1200, Quantity: 2, SaleDate: date},
	}

	breakdown := SalesBreakdown(sales)
	require.Len(t, breakdown, 1)
	assert.Equal(t, "Router X1", breakdown[0].ProductName)
	assert.Equal(t, 1200.0, breakdown[0].Amount)
	assert.Equal(t, 2, breakdown[0].Quantity)
	assert.Equal(t, date, breakdown[0].Date)
}

func TestStatementPeriod(t *testing.T) {
	now := time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)
	start, end := StatementPeriod(now)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), end)
}
