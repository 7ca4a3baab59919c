package interfaces

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	financeErrors "github.com/sebuszqo/Cashlex/internal/finance/errors"
)

var pathParamNotFound = map[string]error{
	"budgetID":      financeErrors.ErrBudgetNotFound,
	"transactionID": financeErrors.ErrTransactionNotFound,
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

// ValidatePathParamsMiddleware rejects requests whose path params are not
// UUIDs. A malformed id can never match a row, so known ids answer 404.
func ValidatePathParamsMiddleware(
	next http.Handler,
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	params ...string,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			value := r.PathValue(param)
			if value == "" {
				respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
				return
			}

			if _, err := uuid.Parse(value); err != nil {
				if notFound, ok := pathParamNotFound[param]; ok {
					respondError(w, http.StatusNotFound, notFound.Error())
					return
				}
				respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", param))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
