// Package report holds the founder dashboard's derived views over the merchant directory.
package report

import (
	"strings"
	"time"

	"smart-reminder/internal/model"
	"smart-reminder/internal/subscription"
)

// FieldAll disables the business-type facet
const FieldAll = "all"

// FilterMerchants keeps merchants whose store name or email contains search (case-insensitive)
// and whose business type equals field, unless field is empty or "all".
func FilterMerchants(list []model.Merchant, search, field string) []model.Merchant {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Merchant, 0, len(list))
	for _, m := range list {
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.StoreName), needle) &&
			!strings.Contains(strings.ToLower(m.Email), needle) {
			continue
		}
		if field != "" && field != FieldAll && m.BusinessType != field {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ExpiredMerchants returns the merchants that are frozen, expired or past the trial window,
// in their original order.
func ExpiredMerchants(list []model.Merchant, now time.Time, window time.Duration) []model.Merchant {
	out := make([]model.Merchant, 0)
	for _, m := range list {
		if subscription.IsExpired(m, now, window) {
			out = append(out, m)
		}
	}
	return out
}

// BusinessTypes lists the distinct business types in first-seen order, for the facet selector
func BusinessTypes(list []model.Merchant) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range list {
		if m.BusinessType == "" || seen[m.BusinessType] {
			continue
		}
		seen[m.BusinessType] = true
		out = append(out, m.BusinessType)
	}
	return out
}
