package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/shopspring/decimal"
)

// NationalIDLength is the exact number of digits of a customer national id (cédula)
const NationalIDLength = 10

// Customer field names as posted by the console form
const (
	FieldName       = "nombre"
	FieldNationalID = "ci"
	FieldPhone      = "telefono"
	FieldAddress    = "direccion"
)

var digitsOnly = regexp.MustCompile(`^\d*$`)

// Customer is the buyer a receipt is issued to
type Customer struct {
	Name       string `json:"nombre"`
	NationalID string `json:"ci"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
}

// CustomerReceipt is the document issued for a finalized sale. It is created once on
// explicit request and never changed afterwards.
type CustomerReceipt struct {
	ID       string            `json:"id"`
	SaleID   string            `json:"sale_id"`
	Customer Customer          `json:"customer"`
	Total    decimal.Decimal   `json:"total"`
	Lines    []PendingSaleLine `json:"lines"`
	FileName string            `json:"file_name"`
	Document []byte            `json:"-"`
}

// ReceiptFileName is the download name of the receipt document
func ReceiptFileName(receiptID string) string {
	return fmt.Sprintf("NotaVenta_%s.pdf", receiptID)
}

// CustomerForm holds the receipt form and its per-field errors. Input that breaks a field
// rule is rejected without being applied.
type CustomerForm struct {
	Customer    Customer          `json:"customer"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// NewCustomerForm returns an empty form
func NewCustomerForm() *CustomerForm {
	return &CustomerForm{FieldErrors: map[string]string{}}
}

// SetField applies one keystroke-level change to the form
func (f *CustomerForm) SetField(field, value string) error {
	switch field {
	case FieldNationalID:
		if !digitsOnly.MatchString(value) {
			f.FieldErrors[FieldNationalID] = "National ID must contain only digits"
			return apperror.NewFieldError(FieldNationalID, f.FieldErrors[FieldNationalID])
		}
		if len(value) > NationalIDLength {
			f.FieldErrors[FieldNationalID] = fmt.Sprintf("National ID exceeds %d digits", NationalIDLength)
			return apperror.NewFieldError(FieldNationalID, f.FieldErrors[FieldNationalID])
		}
		f.Customer.NationalID = value
		if len(value) == NationalIDLength {
			delete(f.FieldErrors, FieldNationalID)
		}
	case FieldPhone:
		if !digitsOnly.MatchString(value) {
			f.FieldErrors[FieldPhone] = "Phone must contain only digits"
			return apperror.NewFieldError(FieldPhone, f.FieldErrors[FieldPhone])
		}
		f.Customer.Phone = value
		delete(f.FieldErrors, FieldPhone)
	case FieldName:
		f.Customer.Name = value
	case FieldAddress:
		f.Customer.Address = value
	default:
		return apperror.NewFieldError(field, fmt.Sprintf("Unknown customer field %q", field))
	}
	return nil
}

// BlurNationalID runs the length check done when the id field loses focus
func (f *CustomerForm) BlurNationalID() error {
	n := len(f.Customer.NationalID)
	if n > 0 && n < NationalIDLength {
		f.FieldErrors[FieldNationalID] = fmt.Sprintf("National ID must have %d digits", NationalIDLength)
		return apperror.NewFieldError(FieldNationalID, f.FieldErrors[FieldNationalID])
	}
	return nil
}

// Fill replaces the form with a customer found by national id
func (f *CustomerForm) Fill(c Customer) {
	f.Customer = c
	f.FieldErrors = map[string]string{}
}

// Validate checks the form before a receipt is requested
func (f *CustomerForm) Validate() error {
	c := f.Customer
	if strings.TrimSpace(c.Name) == "" || c.NationalID == "" ||
		c.Phone == "" || strings.TrimSpace(c.Address) == "" {
		return apperror.NewValidationError("Please complete all fields to create the receipt")
	}
	if len(f.FieldErrors) > 0 {
		errs := make([]apperror.FieldError, 0, len(f.FieldErrors))
		for _, field := range []string{FieldNationalID, FieldPhone} {
			if msg, ok := f.FieldErrors[field]; ok {
				errs = append(errs, apperror.FieldError{Field: field, Message: msg})
			}
		}
		return apperror.NewValidationError("The customer data has errors, please review", errs...)
	}
	if len(c.NationalID) != NationalIDLength {
		return apperror.NewFieldError(FieldNationalID, fmt.Sprintf("National ID must have %d digits", NationalIDLength))
	}
	return nil
}

// Reset clears the form
func (f *CustomerForm) Reset() {
	f.Customer = Customer{}
	f.FieldErrors = map[string]string{}
}
