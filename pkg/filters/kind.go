package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/opst/voipinv/pkg/utils/rfctime"
)

// Kind is a type of field, which knows how to parse filter input.
type Kind interface {
	// Name of this kind, for messages.
	Name() string

	// Parse converts a raw query parameter value into a value of this kind.
	//
	// Returned value can be passed to database as a query argument as it is.
	Parse(raw string) (any, error)

	// Ordered reports whether values of this kind can be compared by order.
	Ordered() bool

	// Textual reports whether this kind supports text matching lookups.
	Textual() bool
}

var (
	// Text is a kind for string fields. Any input is acceptable.
	Text Kind = textKind{}

	// Integer is a kind for integer fields. Parsed value is int64.
	Integer Kind = integerKind{}

	// Date is a kind for date fields, formatted as "YYYY-MM-DD". Parsed value is pgtype.Date.
	Date Kind = dateKind{}

	// Timestamp is a kind for timestamp fields, formatted in RFC3339.
	// Date-only expression "YYYY-MM-DD" is also accepted as its midnight in UTC.
	// Parsed value is time.Time.
	Timestamp Kind = timestampKind{}

	// Time is a kind for time-of-day fields, formatted as "HH:MM", "HH:MM:SS" or "HH:MM:SS.ffffff".
	// Parsed value is pgtype.Time.
	Time Kind = timeKind{}

	// Address is a kind for IP address fields.
	// Both of address ("192.0.2.1") and prefix ("192.0.2.0/24") are accepted.
	// Parsed value is pgtype.Inet.
	Address Kind = addressKind{}
)

type textKind struct{}

func (textKind) Name() string                  { return "text" }
func (textKind) Parse(raw string) (any, error) { return raw, nil }
func (textKind) Ordered() bool                 { return true }
func (textKind) Textual() bool                 { return true }

type integerKind struct{}

func (integerKind) Name() string { return "integer" }
func (integerKind) Parse(raw string) (any, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, err
	}
	return i, nil
}
func (integerKind) Ordered() bool { return true }
func (integerKind) Textual() bool { return false }

type dateKind struct{}

func (dateKind) Name() string { return "date" }
func (dateKind) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	d := pgtype.Date{}
	if err := d.DecodeText(nil, []byte(raw)); err != nil {
		return nil, err
	}
	if d.Status != pgtype.Present || d.InfinityModifier != pgtype.None {
		return nil, fmt.Errorf("not a date: %s", raw)
	}
	return d, nil
}
func (dateKind) Ordered() bool { return true }
func (dateKind) Textual() bool { return false }

type timestampKind struct{}

func (timestampKind) Name() string { return "timestamp" }
func (timestampKind) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if t, err := rfctime.Parse(raw); err == nil {
		return t.Time(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("not a timestamp: %s", raw)
	}
	return t, nil
}
func (timestampKind) Ordered() bool { return true }
func (timestampKind) Textual() bool { return false }

type timeKind struct{}

func (timeKind) Name() string { return "time" }
func (timeKind) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == len("15:04") {
		raw = raw + ":00"
	}
	t := pgtype.Time{}
	if err := t.DecodeText(nil, []byte(raw)); err != nil {
		return nil, err
	}
	if t.Status != pgtype.Present {
		return nil, fmt.Errorf("not a time: %s", raw)
	}
	if t.Microseconds < 0 || t.Microseconds >= int64(24*time.Hour/time.Microsecond) {
		return nil, fmt.Errorf("time out of range: %s", raw)
	}
	return t, nil
}
func (timeKind) Ordered() bool { return true }
func (timeKind) Textual() bool { return false }

type addressKind struct{}

func (addressKind) Name() string { return "address" }
func (addressKind) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("not an address: empty")
	}
	inet := pgtype.Inet{}
	if err := inet.DecodeText(nil, []byte(raw)); err != nil {
		return nil, err
	}
	if inet.Status != pgtype.Present || inet.IPNet == nil {
		return nil, fmt.Errorf("not an address: %s", raw)
	}
	return inet, nil
}
func (addressKind) Ordered() bool { return false }
func (addressKind) Textual() bool { return false }
