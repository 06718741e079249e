package valuation

import (
	"math"
	"time"

	"github.com/BrokenHeaven/storage/internal/period"
)

// SettlementRule maps a delivery period to the date its commodity cash flow
// settles.
type SettlementRule func(p period.Period) time.Time

// DiscountFactor discounts a cash flow on the given date back to the
// valuation date.
type DiscountFactor func(cashflowDate time.Time) float64

// SettleOnDeliveryDay settles each period's trade on the period day itself.
func SettleOnDeliveryDay() SettlementRule {
	return func(p period.Period) time.Time { return p.Time() }
}

// SettleWithLag settles each period's trade a fixed number of days after
// delivery (e.g. month-end plus payment terms approximated as a flat lag).
func SettleWithLag(days int) SettlementRule {
	return func(p period.Period) time.Time { return p.Add(days).Time() }
}

// FlatInterestRate discounts continuously at rate from valDate on an
// act/365 basis. Dates before valDate are not discounted up.
func FlatInterestRate(rate float64, valDate time.Time) DiscountFactor {
	return func(cashflowDate time.Time) float64 {
		years := cashflowDate.Sub(valDate).Hours() / 24 / 365
		if years <= 0 {
			return 1
		}
		return math.Exp(-rate * years)
	}
}

// NoDiscounting values all cash flows at face.
func NoDiscounting() DiscountFactor {
	return func(time.Time) float64 { return 1 }
}
