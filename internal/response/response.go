package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// RespondJSON writes payload as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("JSON encoding error")
	}
}

// RespondError writes the error envelope. An optional list of messages is
// attached under "errors".
func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	RespondJSON(w, status, payload)
}

// RespondSuccess writes {"status":"success","message":...,"data":...}.
// Empty message or nil data are omitted.
func RespondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	payload := map[string]interface{}{
		"status": "success",
	}
	if message != "" {
		payload["message"] = message
	}
	if data != nil {
		payload["data"] = data
	}
	RespondJSON(w, status, payload)
}
