package models

import (
	"encoding/json"
	"time"
)

// NullableDate represents a calendar date that may be absent.
// It serializes as "YYYY-MM-DD" when valid and as null otherwise:
// - No date: Valid=false, Value is the zero time
// - A date: Valid=true, Value is midnight UTC of that day
type NullableDate struct {
	Value time.Time
	Valid bool
}

// DateOf returns a valid NullableDate for the calendar day of t
func DateOf(t time.Time) NullableDate {
	return NullableDate{
		Value: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

// String returns the date key, or an empty string when not valid
func (nd NullableDate) String() string {
	if !nd.Valid {
		return ""
	}
	return nd.Value.Format(DateLayout)
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableDate.
// Both "YYYY-MM-DD" and RFC 3339 timestamps are accepted.
func (nd *NullableDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		nd.Valid = false
		nd.Value = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*nd = DateOf(t)
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableDate.
func (nd NullableDate) MarshalJSON() ([]byte, error) {
	if !nd.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nd.String())
}

// ToPtr converts NullableDate to *time.Time for use with existing code.
func (nd NullableDate) ToPtr() *time.Time {
	if !nd.Valid {
		return nil
	}
	return &nd.Value
}
