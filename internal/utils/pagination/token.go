package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last record of a page, ordered by
// (business date, created at, id) descending.
type Cursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken renders a cursor as an opaque URL-safe token.
func EncodeToken(c Cursor) string {
	tokenStr := strings.Join([]string{c.Date.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return Cursor{Date: date, CreatedAt: createdAt, ID: parts[2]}, nil
}

// Before reports whether a row at (date, createdAt, id) sorts after the
// cursor in descending order, i.e. belongs on a later page.
func (c Cursor) Before(date, createdAt time.Time, id string) bool {
	if !date.Equal(c.Date) {
		return date.Before(c.Date)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return id < c.ID
}
