package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

var jsonNull = []byte("null")

// NullableID tells an absent JSON field (Set false) apart from an explicit
// null (Set true, ID nil). Numeric strings are accepted.
type NullableID struct {
	Set bool
	ID  *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.ID = nil

	if bytes.Equal(data, jsonNull) {
		return nil
	}

	var raw json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = json.Number(s)
	}

	v, err := strconv.ParseUint(raw.String(), 10, 64)
	if err != nil {
		return err
	}

	id := uint(v)
	n.ID = &id
	return nil
}

// NullableTime is NullableID for timestamps. Values are normalized to UTC.
type NullableTime struct {
	Set  bool
	Time *time.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Time = nil

	if bytes.Equal(data, jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}

	n.Time = &t
	return nil
}

// ParseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates and returns
// the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
