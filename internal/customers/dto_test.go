package customers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10", 10, true},
		{"10.50", 10.5, true},
		{"10,50", 10.5, true},
		{" 99,90 ", 99.9, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			require.NoErrorf(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Errorf(t, err, "input %q should fail", tc.in)
		}
	}
}

func TestFormValidate(t *testing.T) {
	v := validator.New()

	form := CustomerForm{
		Name:      "Alice",
		Email:     "alice@example.com",
		AmountDue: "120,50",
		Status:    "To Pay",
		DueDate:   "2026-09-15",
	}
	customer, fieldErrors := form.Validate(v)
	require.Nil(t, fieldErrors)
	assert.Equal(t, "Alice", customer.Name)
	require.NotNil(t, customer.Email)
	assert.Equal(t, "alice@example.com", *customer.Email)
	assert.Equal(t, 120.50, customer.AmountDue)
	assert.Equal(t, StatusToPay, customer.Status)
	require.NotNil(t, customer.DueDate)
	assert.Equal(t, "2026-09-15", customer.DueDate.Format("2006-01-02"))
	assert.Nil(t, customer.Phone)
	assert.Nil(t, customer.Notes)
}

func TestFormValidateCollectsFieldErrors(t *testing.T) {
	v := validator.New()

	form := CustomerForm{
		Name:      "",
		Email:     "not-an-email",
		AmountDue: "nonsense",
		Status:    "Overdue",
		DueDate:   "15/09/2026",
	}
	_, fieldErrors := form.Validate(v)
	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors, "name")
	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "amount_due")
	assert.Contains(t, fieldErrors, "payment_status")
	assert.Contains(t, fieldErrors, "due_date")
}

func TestFormValidateRejectsNegativeAmount(t *testing.T) {
	v := validator.New()

	form := CustomerForm{Name: "Alice", AmountDue: "-5", Status: "Paid"}
	_, fieldErrors := form.Validate(v)
	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors, "amount_due")
}

func TestParseStatus(t *testing.T) {
	for _, status := range AllStatuses() {
		got, err := ParseStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, got)
	}
	_, err := ParseStatus("Overdue")
	assert.Error(t, err)
}
