package service

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// NumericID is an identifier accepted as a JSON number or a numeric string,
// so form-encoded clients can post "3" as well as 3. Empty strings and null
// decode to zero and are left for validation to reject.
type NumericID int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = 0
		return nil
	}

	value := "number"
	if strings.HasPrefix(raw, `"`) {
		value = "string"
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(*n)}
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*n = 0
			return nil
		}
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(*n)}
	}
	*n = NumericID(parsed)
	return nil
}
