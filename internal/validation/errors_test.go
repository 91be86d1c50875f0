package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Err())

	errs.Add("email", "is required")
	errs.Add("", "file is empty")
	err := errs.Err()
	require.Error(t, err)
	assert.EqualError(t, err, "email: is required; file is empty")

	var got Errors
	assert.True(t, errors.As(err, &got))
	assert.Len(t, got, 2)
}

func TestErrorsPrefix(t *testing.T) {
	errs := Errors{{Field: "email", Message: "is required"}, {Message: "bad row"}}
	assert.Equal(t, Errors{
		{Field: "row 3.email", Message: "is required"},
		{Field: "row 3", Message: "bad row"},
	}, errs.Prefix("row 3"))
}

func TestErrorsJSON(t *testing.T) {
	b, err := json.Marshal(Errors{{Field: "price", Message: "must be greater than zero"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"field":"price","message":"must be greater than zero"}]`, string(b))
}
