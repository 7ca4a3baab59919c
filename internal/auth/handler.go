package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/Cashlex/internal/user"
)

type Handler struct {
	authService  Service
	cookieSecure bool
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	authService Service,
	cookieSecure bool,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		authService:  authService,
		cookieSecure: cookieSecure,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    token,
		Path:     "/api/refresh",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		Path:     "/api/refresh",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) respondSession(w http.ResponseWriter, result *LoginResult) {
	h.setSessionCookie(w, result.SessionToken, result.SessionExpires)
	data := map[string]interface{}{
		"access_token":    result.AccessToken,
		"session_expires": result.SessionExpires,
	}
	if result.User != nil {
		data["user_id"] = result.User.ID
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if result.TwoFactorRequired() {
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "Two-factor authentication required",
			"data": map[string]string{
				"pending_token": result.PendingToken,
			},
		})
		return
	}

	h.respondSession(w, result)
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PendingToken string `json:"pending_token"`
		Code         string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PendingToken == "" || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(r.Context(), req.PendingToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPendingToken), errors.Is(err, ErrExpiredPendingToken),
			errors.Is(err, ErrInvalid2FACode), errors.Is(err, ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrUser2FANotEnabled), errors.Is(err, ErrTwoFactorNotRegistered):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		}
		return
	}

	h.respondSession(w, result)
}

// HandleRefresh runs behind SessionCookieMiddleware.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sessionToken, ok := r.Context().Value("sessionToken").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(r.Context(), sessionToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			h.clearSessionCookie(w)
			h.respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	h.respondSession(w, result)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var sessionToken string
	if cookie, err := r.Cookie(refreshTokenCookieName); err == nil {
		sessionToken = cookie.Value
	}

	if err := h.authService.Logout(r.Context(), sessionToken); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Error during logout request.")
		return
	}

	h.clearSessionCookie(w)
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logout successful",
	})
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otpURI, err := h.authService.RegisterTwoFactor(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			h.respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		case errors.Is(err, user.ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not register two-factor authentication")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

func (h *Handler) HandleConfirmTwoFactor(w http.ResponseWriter, r *http.Request) {
	h.handleTwoFactorCode(w, r, h.authService.ConfirmTwoFactor, "Two-factor authentication enabled")
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	h.handleTwoFactorCode(w, r, h.authService.DisableTwoFactor, "Two-factor authentication disabled successfully")
}

func (h *Handler) handleTwoFactorCode(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID, code string) error,
	successMessage string,
) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := action(r.Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			h.respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			h.respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		case errors.Is(err, ErrUser2FANotEnabled):
			h.respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		case errors.Is(err, ErrTwoFactorNotRegistered):
			h.respondError(w, http.StatusBadRequest, "Two-factor authentication has not been registered")
		case errors.Is(err, user.ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": successMessage,
	})
}
