package entity

import "time"

// IdempotencyKey stores the response of a processed console request so a retried request
// with the same key is answered without repeating its backend call
type IdempotencyKey struct {
	Key          string    `gorm:"primaryKey;size:255"` // The idempotency key from the client
	UserID       string    `gorm:"primaryKey;size:64"`  // Operator who made the request
	Endpoint     string    `gorm:"size:255;not null"`   // e.g. "POST /api/v1/checkout/finalize"
	ResponseCode int       `gorm:"not null"`            // HTTP status code of the original response
	ResponseBody []byte    `gorm:"type:bytea"`          // Cached JSON response body
	CreatedAt    time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired at now
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
