package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericIDAcceptsNumbersAndNumericStrings(t *testing.T) {
	cases := map[string]NumericID{
		`{"departmentId":3}`:      3,
		`{"departmentId":"3"}`:    3,
		`{"departmentId":" 12 "}`: 12,
		`{"departmentId":""}`:     0,
		`{"departmentId":null}`:   0,
		`{}`:                      0,
	}
	for body, want := range cases {
		var req CreateSubjectRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.DepartmentID, body)
	}
}

func TestNumericIDRejectsNonNumeric(t *testing.T) {
	for _, body := range []string{`{"departmentId":"abc"}`, `{"departmentId":2.5}`, `{"departmentId":true}`} {
		var req CreateSubjectRequest
		err := json.Unmarshal([]byte(body), &req)

		var typeErr *json.UnmarshalTypeError
		require.True(t, errors.As(err, &typeErr), body)
		assert.Equal(t, "departmentId", typeErr.Field, body)
	}
}
