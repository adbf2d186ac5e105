package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Term is a year or semester number. The server sends it either as a JSON
// number or as a numeric string depending on the endpoint.
type Term int

// UnmarshalJSON accepts 3, "3" and "" (zero).
func (t *Term) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*t = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*t = Term(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Term(n)
	return nil
}

// String renders the number, or "" for zero.
func (t Term) String() string {
	if t == 0 {
		return ""
	}
	return strconv.Itoa(int(t))
}
