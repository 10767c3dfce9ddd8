package report

import (
	"math"

	"smart-reminder/internal/model"

	"github.com/shopspring/decimal"
)

// Stats is the founder dashboard summary
type Stats struct {
	TotalMerchants int                    `json:"total_merchants"`
	ActiveCount    int                    `json:"active_count"`
	TrialCount     int                    `json:"trial_count"`
	OtherCount     int                    `json:"other_count"`
	Revenue        decimal.Decimal        `json:"revenue"`
	ActivePercent  int                    `json:"active_percent"`
	TrialPercent   int                    `json:"trial_percent"`
	OtherPercent   int                    `json:"other_percent"`
	PlanCounts     map[model.PlanType]int `json:"plan_counts"`
}

// ComputeStats aggregates the directory at the current price table.
// Revenue only counts active merchants; a missing plan is priced as basic.
func ComputeStats(list []model.Merchant, prices model.PlanPrices) Stats {
	s := Stats{
		TotalMerchants: len(list),
		Revenue:        decimal.Zero,
		PlanCounts: map[model.PlanType]int{
			model.PlanBasic:      0,
			model.PlanPro:        0,
			model.PlanEnterprise: 0,
		},
	}

	for _, m := range list {
		switch m.SubscriptionStatus {
		case model.StatusActive:
			s.ActiveCount++
			s.Revenue = s.Revenue.Add(prices.Price(m.PlanType))
			plan := m.PlanType
			if !plan.Valid() {
				plan = model.PlanBasic
			}
			s.PlanCounts[plan]++
		case model.StatusTrial:
			s.TrialCount++
		default:
			s.OtherCount++
		}
	}

	s.ActivePercent = percent(s.ActiveCount, len(list))
	s.TrialPercent = percent(s.TrialCount, len(list))
	s.OtherPercent = percent(s.OtherCount, len(list))
	return s
}

func percent(count, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Floor(float64(count)*100/float64(total) + 0.5))
}
