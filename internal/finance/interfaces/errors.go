package interfaces

import (
	"errors"
	"net/http"

	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type respondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

// respondServiceError maps service errors onto the error envelope. Anything
// unrecognised is logged and reported as a 500 with fallback as message.
func respondServiceError(w http.ResponseWriter, respondError respondErrorFunc, log logrus.FieldLogger, err error, fallback string) {
	if messages, ok := financeErrors.ValidationMessages(err); ok {
		respondError(w, http.StatusBadRequest, "Validation errors occurred", messages)
		return
	}
	switch {
	case errors.Is(err, financeErrors.ErrBudgetNotFound):
		respondError(w, http.StatusNotFound, financeErrors.ErrBudgetNotFound.Error())
	case errors.Is(err, financeErrors.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, financeErrors.ErrTransactionNotFound.Error())
	default:
		log.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
