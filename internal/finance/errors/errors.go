package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBudgetNotFound      = errors.New("Budget not found")
	ErrTransactionNotFound = errors.New("Transaction not found")
)

// ErrBudgetSpentOverflow is returned when a charge would push a budget's spent
// total past what numeric(10,2) holds.
var ErrBudgetSpentOverflow = NewFieldValidationError("budgetId", "Budget spent total would exceed 99999999.99.")

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewFieldValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// ValidationErrors collects every problem found in one input.
type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(ve.Messages(), "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// ErrOrNil returns nil when nothing was collected.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// ValidationMessages flattens a ValidationError or ValidationErrors into
// response messages. ok is false for any other error.
func ValidationMessages(err error) (messages []string, ok bool) {
	var many *ValidationErrors
	if errors.As(err, &many) {
		return many.Messages(), true
	}
	var one *ValidationError
	if errors.As(err, &one) {
		return []string{one.Msg}, true
	}
	return nil, false
}
