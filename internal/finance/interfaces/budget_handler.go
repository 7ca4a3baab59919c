package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/Cashlex/internal/finance/domain"
	"github.com/sirupsen/logrus"
)

type BudgetServiceInterface interface {
	GetAll(ctx context.Context, userID string) ([]domain.Budget, error)
	Create(ctx context.Context, userID string, input domain.CreateBudgetInput) (*domain.Budget, error)
	Delete(ctx context.Context, userID, budgetID string) error
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	log          logrus.FieldLogger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewBudgetHandler(
	service BudgetServiceInterface,
	log logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *BudgetHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &BudgetHandler{
		service:      service,
		log:          log,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	budgets, err := h.service.GetAll(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.respondError, h.log, err, "Failed to retrieve budgets")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budgets retrieved successfully.",
		"data":    budgets,
	})
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input domain.CreateBudgetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, h.respondError, h.log, err, "Failed to create budget")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully created.",
		"data":    budget,
	})
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("budgetID")); err != nil {
		respondServiceError(w, h.respondError, h.log, err, "Failed to delete budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully deleted.",
	})
}
