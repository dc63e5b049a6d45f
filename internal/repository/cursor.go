package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// pageCursor is the decoded form of a listing continuation token. It mirrors
// the key attributes DynamoDB returns in LastEvaluatedKey for a query on the
// owner index (index keys plus the table key), and the memory driver reuses
// the same shape so tokens are interchangeable in tests.
type pageCursor struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
}

func encodeCursor(c pageCursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return pageCursor{}, fmt.Errorf("%w: %v", ErrBadPageToken, err)
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return pageCursor{}, fmt.Errorf("%w: %v", ErrBadPageToken, err)
	}
	if c.ID == "" || c.OwnerID == "" || c.CreatedAt == "" {
		return pageCursor{}, fmt.Errorf("%w: missing key attributes", ErrBadPageToken)
	}
	return c, nil
}
