package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	"github.com/sirupsen/logrus"
)

type SummaryServiceInterface interface {
	GetSummary(ctx context.Context, userID string) (domain.Summary, error)
	GetExpenseBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error)
	GetIncomeBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error)
	GetMonthlyBreakdown(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.MonthlyBreakdown, error)
}

type SummaryHandler struct {
	service      SummaryServiceInterface
	log          logrus.FieldLogger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewSummaryHandler(
	service SummaryServiceInterface,
	log logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *SummaryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &SummaryHandler{
		service:      service,
		log:          log,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// parseDateFilter reads the optional start_date and end_date query params.
func (h *SummaryHandler) parseDateFilter(w http.ResponseWriter, r *http.Request) (domain.DateFilter, bool) {
	var filter domain.DateFilter

	if s := r.URL.Query().Get("start_date"); s != "" {
		start, err := domain.ParseDate(s)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid start date format")
			return filter, false
		}
		filter.Start = &start
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		end, err := domain.ParseDate(s)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid end date format")
			return filter, false
		}
		filter.End = &end
	}
	return filter, true
}

func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("Failed to retrieve transaction summary")
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transaction summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions summary retrieved successfully.",
		"data":    summary,
	})
}

func (h *SummaryHandler) GetExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	h.categoryBreakdown(w, r, h.service.GetExpenseBreakdown)
}

func (h *SummaryHandler) GetIncomeBreakdown(w http.ResponseWriter, r *http.Request) {
	h.categoryBreakdown(w, r, h.service.GetIncomeBreakdown)
}

func (h *SummaryHandler) categoryBreakdown(
	w http.ResponseWriter,
	r *http.Request,
	get func(ctx context.Context, userID string, filter domain.DateFilter) ([]domain.CategoryBreakdown, error),
) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	filter, ok := h.parseDateFilter(w, r)
	if !ok {
		return
	}

	breakdown, err := get(r.Context(), userID, filter)
	if err != nil {
		h.log.WithError(err).Error("Failed to retrieve category breakdown")
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve category breakdown")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category breakdown retrieved successfully.",
		"data":    breakdown,
	})
}

func (h *SummaryHandler) GetMonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	filter, ok := h.parseDateFilter(w, r)
	if !ok {
		return
	}

	breakdown, err := h.service.GetMonthlyBreakdown(r.Context(), userID, filter)
	if err != nil {
		h.log.WithError(err).Error("Failed to retrieve monthly breakdown")
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve monthly breakdown")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Monthly breakdown retrieved successfully.",
		"data":    breakdown,
	})
}
