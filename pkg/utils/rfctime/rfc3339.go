// Package rfctime is timestamps of the API, written in RFC3339 with a numeric offset.
package rfctime

import (
	"encoding/json"
	"time"
)

// layout used on output. "Z" is never written.
const layout = "2006-01-02T15:04:05.999-07:00"

// RFC3339 is time.Time which is marshalled as RFC3339 date-time.
type RFC3339 time.Time

// Parse reads s as RFC3339 date-time. Both "Z" and numeric offsets are accepted.
func Parse(s string) (RFC3339, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	return RFC3339(t), err
}

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

// Equal tells t and other are the same instant, ignoring time zones.
func (t RFC3339) Equal(other RFC3339) bool {
	return t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	return t.Time().Format(layout)
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON reads a JSON string. null leaves t unchanged.
func (t *RFC3339) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	v, err := Parse(*s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
