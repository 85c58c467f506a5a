package stockhealth

import "math"

// ReorderQuantity computes a recommended order size:
//
//	max(0, round(avg_daily_usage × lead_time_days × safety_factor) − current_stock)
//
// A nil or non-positive usage rate yields 0 — no order is suggested for a
// pair with no measurable consumption, even when it is stocked out. The
// result is always a non-negative integer; there are no error conditions.
func ReorderQuantity(avgDailyUsage *float64, leadTimeDays, currentStock int, safetyFactor float64) int {
	if avgDailyUsage == nil || *avgDailyUsage <= 0 {
		return 0
	}
	target := math.Round(*avgDailyUsage * float64(leadTimeDays) * safetyFactor)
	qty := int(target) - currentStock
	if qty < 0 {
		return 0
	}
	return qty
}
