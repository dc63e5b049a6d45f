package model

import "time"

// TimestampLayout is the stored timestamp format. Fractional seconds are
// zero-padded to a fixed width so lexicographic order over UTC timestamps
// matches chronological order; the listing index range key and the memory
// driver's sort both rely on this.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats t for storage.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Todo is the single persisted record of the system.
//
// OwnerID is bound at creation from the authenticated caller, never from
// client input. ID, OwnerID and CreatedAt are immutable. UpdatedAt is
// rewritten on every mutation. Version starts at 0 and increases by exactly
// one per successful update; it gates conditional writes.
type Todo struct {
	ID             string `json:"id" dynamodbav:"id"`
	OwnerID        string `json:"ownerId" dynamodbav:"ownerId"`
	Title          string `json:"title" dynamodbav:"title"`
	Completed      bool   `json:"completed" dynamodbav:"completed"`
	CreatedAt      string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt      string `json:"updatedAt" dynamodbav:"updatedAt"`
	Version        int64  `json:"version" dynamodbav:"version"`
	IdempotencyKey string `json:"idempotencyKey,omitempty" dynamodbav:"idempotencyKey,omitempty"`
}

type TodoListParams struct {
	OwnerID   string
	Limit     int
	PageToken string
}

type TodoListResult struct {
	Items         []Todo `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	Count         int    `json:"count"`
	Limit         int    `json:"limit"`
	HasMore       bool   `json:"hasMore"`
}
