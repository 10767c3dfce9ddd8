package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventType is the category of a marketing event
type EventType string

const (
	EventReligious  EventType = "religious"
	EventNational   EventType = "national"
	EventCommercial EventType = "commercial"
	EventGlobal     EventType = "global"
	EventCustom     EventType = "custom"
)

// Priority ranks marketing events
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DateLayout is the ISO date format events are stored in
const DateLayout = "2006-01-02"

// Localized is a bilingual text value
type Localized struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

// In returns the text for lang, falling back to English
func (l Localized) In(lang string) string {
	if lang == "ar" && l.Ar != "" {
		return l.Ar
	}
	return l.En
}

// MarketingEvent is a calendar occasion merchants can generate content for
type MarketingEvent struct {
	ID          string                        `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Title       datatypes.JSONType[Localized] `json:"title"`
	Date        string                        `json:"date" gorm:"type:varchar(10);index"`
	Type        EventType                     `json:"type" gorm:"type:varchar(16)"`
	Description datatypes.JSONType[Localized] `json:"description"`
	Priority    Priority                      `json:"priority" gorm:"type:varchar(8)"`
}

// NewEvent builds an event from plain values
func NewEvent(id string, title Localized, date string, typ EventType, desc Localized, priority Priority) MarketingEvent {
	return MarketingEvent{
		ID:          id,
		Title:       datatypes.NewJSONType(title),
		Date:        date,
		Type:        typ,
		Description: datatypes.NewJSONType(desc),
		Priority:    priority,
	}
}

// Day parses the event date in UTC
func (e MarketingEvent) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}
