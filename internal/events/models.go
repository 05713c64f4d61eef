package events

import "time"

// Event is one immutable tracked action. Rows are append-only; rollups and
// reports are derived from them but events themselves are never updated.
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index"`
	SessionID string    `gorm:"index;size:64"`
	EventType EventType `gorm:"index:idx_events_type_timestamp;size:32;not null"`

	// Promoted payload columns used in query predicates. The full payload
	// is kept verbatim in PayloadJSON.
	ProductID     uint   `gorm:"index"`
	CategoryID    uint
	OrderID       uint
	DeviceType    string `gorm:"size:16"`
	Platform      string `gorm:"size:16"`
	Country       string `gorm:"size:2"`
	TrafficSource string `gorm:"size:32"`

	PayloadJSON string `gorm:"type:text"`
	IPAddress   string `gorm:"size:45"`
	UserAgent   string

	// Timestamp is assigned by the server at ingest; client-supplied times
	// are ignored.
	Timestamp time.Time `gorm:"index:idx_events_type_timestamp;index;not null"`
	CreatedAt time.Time
}

// EventData is the client-supplied payload of a tracked event. Fields are
// optional; the tracker promotes the ones it indexes and stores the rest
// as JSON.
type EventData struct {
	ProductID   uint    `json:"productId,omitempty"`
	CategoryID  uint    `json:"categoryId,omitempty"`
	OrderID     uint    `json:"orderId,omitempty"`
	SearchQuery string  `json:"searchQuery,omitempty"`
	PageURL     string  `json:"pageUrl,omitempty"`
	Referrer    string  `json:"referrer,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Rating      int     `json:"rating,omitempty"`
	CouponCode  string  `json:"couponCode,omitempty"`
	DeviceType  string  `json:"deviceType,omitempty"`
	Platform    string  `json:"platform,omitempty"`
	Country     string  `json:"country,omitempty"`
	Source      string  `json:"source,omitempty"`
	IsUnique    bool    `json:"isUnique,omitempty"`
	AppVersion  string  `json:"appVersion,omitempty"`
	DurationMS  int64   `json:"durationMs,omitempty"`
}
