package model

import "time"

// ContentType is the kind of a generated content item
type ContentType string

const (
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentCopy  ContentType = "copy"
)

// GeneratedContent is an append-only record of something the studio produced
type GeneratedContent struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(64)"`
	MerchantID string      `json:"merchant_id" gorm:"type:varchar(64);index"`
	Type       ContentType `json:"type" gorm:"type:varchar(8)"`
	URL        string      `json:"url,omitempty" gorm:"type:text"`
	Text       string      `json:"text,omitempty" gorm:"type:text"`
	EventID    string      `json:"event_id,omitempty" gorm:"type:varchar(64)"`
	CreatedAt  time.Time   `json:"created_at" gorm:"index"`
}
