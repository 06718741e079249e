package valuation

import (
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
)

// ImmediateNPVForDecision computes the present value contribution of trading
// volume at price in one period, before any continuation value:
//
//	- the trade itself: buying on injection (volume > 0), selling on
//	  withdrawal (volume < 0), settled per the settlement rule
//	- minus discounted injection or withdrawal cost cash flows
//	- minus the discounted value of commodity burned to perform the action
//
// Pure function of its inputs. The consumed volume is also returned so
// callers can build consumption profiles without re-deriving it.
func ImmediateNPVForDecision(f *storage.Facility, p period.Period, inventoryBefore, volume, price float64,
	settle SettlementRule, discount DiscountFactor) (npv, cmdtyConsumed float64) {

	dfSettlement := discount(settle(p))
	npv = -volume * price * dfSettlement

	var costs []storage.Cashflow
	if volume > 0 {
		costs = f.InjectionCashflows(p, inventoryBefore, volume)
		cmdtyConsumed = f.CmdtyConsumedOnInject(p, inventoryBefore, volume)
	} else if volume < 0 {
		costs = f.WithdrawalCashflows(p, inventoryBefore, volume)
		cmdtyConsumed = f.CmdtyConsumedOnWithdraw(p, inventoryBefore, volume)
	}

	for _, cf := range costs {
		npv -= cf.Amount * discount(cf.Date)
	}
	npv -= cmdtyConsumed * price * dfSettlement

	return npv, cmdtyConsumed
}
