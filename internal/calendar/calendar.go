// Package calendar derives the dashboard and smart calendar views from the event list.
package calendar

import (
	"fmt"
	"math"
	"sort"
	"time"

	"smart-reminder/internal/model"
)

const day = 24 * time.Hour

// FeaturedCount is how many upcoming events the dashboard highlights
const FeaturedCount = 3

// UpcomingEvent is an event with the whole days remaining until it starts
type UpcomingEvent struct {
	model.MarketingEvent
	DaysLeft int `json:"days_left"`
}

// Upcoming returns events strictly after now, soonest first.
// Events with an unparsable date are skipped.
func Upcoming(events []model.MarketingEvent, now time.Time) []UpcomingEvent {
	out := make([]UpcomingEvent, 0, len(events))
	starts := make(map[string]time.Time, len(events))
	for _, e := range events {
		start, err := e.Day()
		if err != nil || !start.After(now) {
			continue
		}
		starts[e.ID] = start
		out = append(out, UpcomingEvent{
			MarketingEvent: e,
			DaysLeft:       int(math.Ceil(float64(start.Sub(now)) / float64(day))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return starts[out[i].ID].Before(starts[out[j].ID])
	})
	return out
}

// Summary is the dashboard view
type Summary struct {
	UpcomingCount     int                       `json:"upcoming_count"`
	NextEvent         *UpcomingEvent            `json:"next_event,omitempty"`
	Featured          []UpcomingEvent           `json:"featured"`
	ContentCounts     map[model.ContentType]int `json:"content_counts"`
	TotalContents     int                       `json:"total_contents"`
	TotalGenerated    int                       `json:"total_generated"`
	LatestCampaign    *model.CampaignReport     `json:"latest_campaign,omitempty"`
	Frozen            bool                      `json:"frozen"`
	TrialRemainingSec int64                     `json:"trial_remaining_seconds"`
}

// DashboardInput is the state the dashboard is derived from
type DashboardInput struct {
	Events         []model.MarketingEvent
	Contents       []model.GeneratedContent
	Profile        model.MerchantProfile
	LatestCampaign *model.CampaignReport
	Frozen         bool
	TrialRemaining time.Duration
	Now            time.Time
}

// Dashboard builds the dashboard summary
func Dashboard(in DashboardInput) Summary {
	upcoming := Upcoming(in.Events, in.Now)
	s := Summary{
		UpcomingCount: len(upcoming),
		Featured:      upcoming[:min(FeaturedCount, len(upcoming))],
		ContentCounts: map[model.ContentType]int{
			model.ContentImage: 0,
			model.ContentVideo: 0,
			model.ContentCopy:  0,
		},
		TotalContents:     len(in.Contents),
		TotalGenerated:    in.Profile.TotalGeneratedContent,
		LatestCampaign:    in.LatestCampaign,
		Frozen:            in.Frozen,
		TrialRemainingSec: int64(in.TrialRemaining / time.Second),
	}
	if len(upcoming) > 0 {
		next := upcoming[0]
		s.NextEvent = &next
	}
	for _, c := range in.Contents {
		s.ContentCounts[c.Type]++
	}
	return s
}

// Day is one cell of the month grid
type Day struct {
	Day    int                    `json:"day"`
	Date   string                 `json:"date"`
	Events []model.MarketingEvent `json:"events"`
}

// MonthView is the smart calendar grid for one month
type MonthView struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	DaysInMonth  int   `json:"days_in_month"`
	FirstWeekday int   `json:"first_weekday"`
	Days         []Day `json:"days"`
	EventCount   int   `json:"event_count"`
}

// Month lays the events of year/month onto a day grid
func Month(events []model.MarketingEvent, year, month int) (MonthView, error) {
	if month < 1 || month > 12 {
		return MonthView{}, fmt.Errorf("invalid month %d", month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	v := MonthView{
		Year:         year,
		Month:        month,
		DaysInMonth:  days,
		FirstWeekday: int(first.Weekday()),
		Days:         make([]Day, days),
	}
	for i := range v.Days {
		v.Days[i] = Day{
			Day:    i + 1,
			Date:   first.AddDate(0, 0, i).Format(model.DateLayout),
			Events: []model.MarketingEvent{},
		}
	}
	for _, e := range events {
		d, err := e.Day()
		if err != nil || d.Year() != year || int(d.Month()) != month {
			continue
		}
		v.Days[d.Day()-1].Events = append(v.Days[d.Day()-1].Events, e)
		v.EventCount++
	}
	return v, nil
}
