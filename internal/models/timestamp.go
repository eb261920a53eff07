package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the wire format for record creation times.
const TimestampLayout = "2006-01-02 15:04:05"

func init() {
	// Money travels as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Timestamp is a time.Time serialized as "yyyy-MM-dd HH:mm:ss".
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to whole seconds.
func Now() Timestamp {
	return Timestamp{Time: time.Now().Truncate(time.Second)}
}

// MarshalJSON renders the zero time as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON accepts null, an empty string, the record layout or RFC 3339.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	s := string(data[1 : len(data)-1])
	if parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
