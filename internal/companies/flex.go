package companies

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexNumber is a JSON number that may also arrive as a numeric string,
// as form-driven clients tend to send.
type FlexNumber struct {
	value float64
	valid bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = FlexNumber{}
		return nil
	}
	*n = FlexNumber{value: v, valid: true}
	return nil
}

// NewFlexNumber wraps a known value.
func NewFlexNumber(v float64) FlexNumber {
	return FlexNumber{value: v, valid: true}
}

// Int truncates the value; a missing, unparsable or zero value yields fallback.
func (n FlexNumber) Int(fallback int) int {
	if !n.valid || int(n.value) == 0 {
		return fallback
	}
	return int(n.value)
}

// Float returns the value, or fallback when missing or zero.
func (n FlexNumber) Float(fallback float64) float64 {
	if !n.valid || n.value == 0 {
		return fallback
	}
	return n.value
}
