package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date   string `validate:"required,datetime=2006-01-02"`
	Count  int    `validate:"min=1"`
	Status string `validate:"oneof=Pending Paid"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sample{Date: "2024-06-01", Count: 1, Status: "Paid"})
	assert.Empty(t, errs)

	errs = ValidateStruct(sample{Date: "01/06/2024", Count: 0, Status: "Cancelled"})
	assert.Equal(t, map[string]string{
		"Date":   "Must match layout 2006-01-02",
		"Count":  "Minimum value is 1",
		"Status": "Must be one of: Pending, Paid",
	}, errs)
}

func TestFormatValidationErrorsIsSorted(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "a: one; b: two", msg)
}
