package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"smart-reminder/internal/model"

	"github.com/shopspring/decimal"
)

var (
	merchantHeader = []string{"Store Name", "Email", "Phone", "Business Type", "Plan", "Status", "Created At", "Revenue (SAR)"}
	expiredHeader  = []string{"Store Name", "Email", "Phone", "Created At"}
)

// MerchantsFileName is the download name of the subscription report
func MerchantsFileName(now time.Time) string {
	return fmt.Sprintf("subscription_report_%s.csv", now.UTC().Format(model.DateLayout))
}

// ExpiredFileName is the download name of the expired trials report
func ExpiredFileName(now time.Time) string {
	return fmt.Sprintf("expired_trials_report_%s.csv", now.UTC().Format(model.DateLayout))
}

// Revenue is the amount a merchant contributes at current prices
func Revenue(m model.Merchant, prices model.PlanPrices) decimal.Decimal {
	if m.SubscriptionStatus != model.StatusActive {
		return decimal.Zero
	}
	return prices.Price(m.PlanType)
}

// WriteMerchantsCSV writes the subscription report. Fields are quoted as needed.
func WriteMerchantsCSV(w io.Writer, list []model.Merchant, prices model.PlanPrices) error {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{
			m.StoreName,
			m.Email,
			m.Phone,
			m.BusinessType,
			string(m.PlanType),
			string(m.SubscriptionStatus),
			formatCreated(m.CreatedAt),
			Revenue(m, prices).String(),
		})
	}
	return writeCSV(w, merchantHeader, rows)
}

// WriteExpiredCSV writes the expired trials report
func WriteExpiredCSV(w io.Writer, list []model.Merchant) error {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{m.StoreName, m.Email, m.Phone, formatCreated(m.CreatedAt)})
	}
	return writeCSV(w, expiredHeader, rows)
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
