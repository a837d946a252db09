package service

import (
	"time"

	"github.com/shopspring/decimal"

	"pos-order-core/internal/domain"
)

type FeePolicy struct {
	Rate decimal.Decimal
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{Rate: decimal.NewFromFloat(0.01)}
}

type SettlementReport struct {
	Gross      domain.Amount         `json:"gross"`
	Fee        domain.Amount         `json:"fee"`
	Net        domain.Amount         `json:"net"`
	OrderCount int                   `json:"order_count"`
	ByHour     map[int]domain.Amount `json:"by_hour"`
	ByDay      map[int]domain.Amount `json:"by_day"`
	ByMonth    map[int]domain.Amount `json:"by_month"`
	ByYear     map[int]domain.Amount `json:"by_year"`
}

// Settle recomputes gross, platform fee and net payout for one shop from
// scratch: the revenue set is exactly the shop's paid and completed orders,
// each counted once. No running total is kept anywhere, so rerunning it on
// every poll tick is safe. Bucket boundaries are wall-clock-local to loc.
func Settle(orders []domain.Order, shop domain.Shop, policy FeePolicy, loc *time.Location) SettlementReport {
	if loc == nil {
		loc = time.Local
	}
	report := SettlementReport{
		ByHour:  make(map[int]domain.Amount),
		ByDay:   make(map[int]domain.Amount),
		ByMonth: make(map[int]domain.Amount),
		ByYear:  make(map[int]domain.Amount),
	}

	gross := decimal.Zero
	seen := make(map[int]bool)
	for _, o := range orders {
		if o.Status != domain.StatusPaid && o.Status != domain.StatusCompleted {
			continue
		}
		if !shop.Owns(o) {
			continue
		}
		if o.ID != 0 && seen[o.ID] {
			continue
		}
		seen[o.ID] = true

		gross = gross.Add(o.TotalPrice.Decimal)
		report.OrderCount++

		at := o.OrderDate.In(loc)
		addBucket(report.ByHour, at.Hour(), o.TotalPrice)
		addBucket(report.ByDay, at.Day(), o.TotalPrice)
		addBucket(report.ByMonth, int(at.Month()), o.TotalPrice)
		addBucket(report.ByYear, at.Year(), o.TotalPrice)
	}

	fee := gross.Mul(policy.Rate)
	report.Gross = domain.NewAmount(gross)
	report.Fee = domain.NewAmount(fee)
	report.Net = domain.NewAmount(gross.Sub(fee))
	return report
}

func addBucket(buckets map[int]domain.Amount, key int, amount domain.Amount) {
	buckets[key] = buckets[key].Add(amount)
}
