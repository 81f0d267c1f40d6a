package customers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clientdesk/clientdesk/internal/shared"
)

// dueDateLayout is the format expected from the date input on the form.
const dueDateLayout = "2006-01-02"

// CustomerForm carries the raw submitted values so the form can be
// re-rendered with the user's input intact when validation fails.
type CustomerForm struct {
	Name      string `validate:"required,max=200"`
	Email     string `validate:"omitempty,email,max=200"`
	Phone     string `validate:"omitempty,max=50"`
	AmountDue string `validate:"required"`
	Status    string `validate:"required"`
	Notes     string `validate:"omitempty,max=2000"`
	DueDate   string `validate:"omitempty"`
}

func FormFromRequest(r *http.Request) CustomerForm {
	return CustomerForm{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
		AmountDue: strings.TrimSpace(r.PostFormValue("amount_due")),
		Status:    strings.TrimSpace(r.PostFormValue("payment_status")),
		Notes:     strings.TrimSpace(r.PostFormValue("notes")),
		DueDate:   strings.TrimSpace(r.PostFormValue("due_date")),
	}
}

// Validate checks the submitted values and converts them into a Customer.
// The returned map holds one message per invalid field.
func (f CustomerForm) Validate(v *validator.Validate) (Customer, map[string]string) {
	fieldErrors := make(map[string]string)

	if err := v.Struct(f); err != nil {
		var invalid validator.ValidationErrors
		errors.As(err, &invalid)
		for _, fieldErr := range invalid {
			switch fieldErr.Field() {
			case "Name":
				fieldErrors["name"] = "Name is required"
			case "Email":
				fieldErrors["email"] = "Enter a valid email address"
			case "Phone":
				fieldErrors["phone"] = "Phone is too long"
			case "AmountDue":
				fieldErrors["amount_due"] = "Amount due is required"
			case "Status":
				fieldErrors["payment_status"] = "Payment status is required"
			case "Notes":
				fieldErrors["notes"] = "Notes are too long"
			}
		}
	}

	var c Customer
	c.Name = f.Name
	if f.Email != "" {
		email := f.Email
		c.Email = &email
	}
	if f.Phone != "" {
		phone := f.Phone
		c.Phone = &phone
	}
	if f.Notes != "" {
		notes := f.Notes
		c.Notes = &notes
	}

	if f.AmountDue != "" {
		amount, err := ParseAmount(f.AmountDue)
		if err != nil {
			fieldErrors["amount_due"] = "Enter a valid amount"
		} else if amount < 0 {
			fieldErrors["amount_due"] = "Amount due cannot be negative"
		} else {
			c.AmountDue = amount
		}
	}

	if f.Status != "" {
		status, err := ParseStatus(f.Status)
		if err != nil {
			fieldErrors["payment_status"] = "Choose a valid payment status"
		} else {
			c.Status = status
		}
	}

	if f.DueDate != "" {
		due, err := time.Parse(dueDateLayout, f.DueDate)
		if err != nil {
			fieldErrors["due_date"] = "Enter the due date as YYYY-MM-DD"
		} else {
			c.DueDate = &due
		}
	}

	if len(fieldErrors) > 0 {
		return c, fieldErrors
	}
	return c, nil
}

// ParseAmount accepts both decimal separators, so "1.234,56" style input
// with a comma decimal still parses.
func ParseAmount(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", shared.ErrValidation, raw)
	}
	return amount, nil
}
