// internal/models/common.go
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is an amenity indicator stored as 0 or 1. Anything that is not
// recognisably "on" decodes to 0.
type Flag int16

const (
	FlagOff Flag = 0
	FlagOn  Flag = 1
)

func (f Flag) On() bool {
	return f == FlagOn
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = parseFlag(s)
		return nil
	}
	*f = parseFlag(string(data))
	return nil
}

// UnmarshalParam lets gin bind flags from form and query values.
func (f *Flag) UnmarshalParam(param string) error {
	*f = parseFlag(param)
	return nil
}

func parseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on":
		return FlagOn
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && v == 1 {
		return FlagOn
	}
	return FlagOff
}

// NullFloat is a nullable NUMERIC column. Clients often send numbers as
// strings, so both forms are accepted on input.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

func NewNullFloat(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Float64, nil
}

func (n *NullFloat) Scan(value interface{}) error {
	if value == nil {
		*n = NullFloat{}
		return nil
	}

	switch v := value.(type) {
	case float64:
		*n = NewNullFloat(v)
	case float32:
		*n = NewNullFloat(float64(v))
	case int64:
		*n = NewNullFloat(float64(v))
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into NullFloat", value)
	}
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	return n.parse(raw)
}

func (n *NullFloat) UnmarshalParam(param string) error {
	return n.parse(param)
}

// String renders the value the way Postgres casts NUMERIC to text.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func (n *NullFloat) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*n = NewNullFloat(v)
	return nil
}

// NullInt is a nullable INTEGER column with the same lenient decoding as NullFloat.
type NullInt struct {
	Int64 int64
	Valid bool
}

func NewNullInt(v int64) NullInt {
	return NullInt{Int64: v, Valid: true}
}

func (n NullInt) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Int64, nil
}

func (n *NullInt) Scan(value interface{}) error {
	if value == nil {
		*n = NullInt{}
		return nil
	}

	switch v := value.(type) {
	case int64:
		*n = NewNullInt(v)
	case int32:
		*n = NewNullInt(int64(v))
	case float64:
		*n = NewNullInt(int64(v))
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into NullInt", value)
	}
	return nil
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Int64)
}

func (n *NullInt) UnmarshalJSON(data []byte) error {
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	return n.parse(raw)
}

func (n *NullInt) UnmarshalParam(param string) error {
	return n.parse(param)
}

func (n *NullInt) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*n = NullInt{}
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = NewNullInt(v)
		return nil
	}
	// Whole-valued decimals such as "3.0" are accepted.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = NewNullInt(int64(f))
	return nil
}

func unquoteNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(data), nil
}
