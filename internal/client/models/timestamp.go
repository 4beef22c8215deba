package models

import (
	"bytes"
	"fmt"
	"time"
)

// TimestampLayout is the backend's wire format for dates.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local date-time without zone. The zero value encodes as
// null.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", b)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, string(b[1:len(b)-1]), time.Local)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(TimestampLayout)
}
