package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/Cashlex/internal/auth"
	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/interfaces"
	"github.com/sebuszqo/Cashlex/internal/response"
	"github.com/sebuszqo/Cashlex/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	budgetHandler      *interfaces.BudgetHandler
	transactionHandler *interfaces.TransactionHandler
	categoryHandler    *interfaces.CategoryHandler
	summaryHandler     *interfaces.SummaryHandler
	hub                *events.Hub
	health             HealthChecker
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		response.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not ready",
			"database": stats,
		})
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": stats,
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()
	withSession := s.authService.SessionCookieMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/auth/sign-up", http.HandlerFunc(s.userHandler.HandleSignUp))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("/api/", http.HandlerFunc(notFoundHandler))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", protect(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/confirm", protect(http.HandlerFunc(s.authHandler.HandleConfirmTwoFactor)))
	protectedRoutes.Handle("DELETE /api/protected/2fa", protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// BUDGETS API
	protectedRoutes.Handle("GET /api/protected/budgets", protect(http.HandlerFunc(s.budgetHandler.GetBudgets)))
	protectedRoutes.Handle("POST /api/protected/budgets", protect(http.HandlerFunc(s.budgetHandler.CreateBudget)))
	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}",
		protect(interfaces.ValidatePathParamsMiddleware(http.HandlerFunc(s.budgetHandler.DeleteBudget), response.RespondError, "budgetID")))

	// TRANSACTIONS API
	protectedRoutes.Handle("GET /api/protected/transactions", protect(http.HandlerFunc(s.transactionHandler.GetTransactions)))
	protectedRoutes.Handle("POST /api/protected/transactions", protect(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}",
		protect(interfaces.ValidatePathParamsMiddleware(http.HandlerFunc(s.transactionHandler.DeleteTransaction), response.RespondError, "transactionID")))
	protectedRoutes.Handle("GET /api/protected/transactions/categories", protect(http.HandlerFunc(s.categoryHandler.GetCategories)))

	// SUMMARY API
	protectedRoutes.Handle("GET /api/protected/transactions/summary", protect(http.HandlerFunc(s.summaryHandler.GetSummary)))
	protectedRoutes.Handle("GET /api/protected/transactions/breakdown/expense", protect(http.HandlerFunc(s.summaryHandler.GetExpenseBreakdown)))
	protectedRoutes.Handle("GET /api/protected/transactions/breakdown/income", protect(http.HandlerFunc(s.summaryHandler.GetIncomeBreakdown)))
	protectedRoutes.Handle("GET /api/protected/transactions/breakdown/monthly", protect(http.HandlerFunc(s.summaryHandler.GetMonthlyBreakdown)))

	// Live ledger events
	protectedRoutes.Handle("GET /api/protected/ws", protect(http.HandlerFunc(s.hub.ServeWS)))
	protectedRoutes.Handle("/api/protected/", http.HandlerFunc(notFoundHandler))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", withSession(http.HandlerFunc(s.authHandler.HandleRefresh)))
	refreshTokenRoutes.Handle("POST /api/refresh/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	refreshTokenRoutes.Handle("/api/refresh/", http.HandlerFunc(notFoundHandler))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}
