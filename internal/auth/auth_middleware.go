package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/Cashlex/internal/response"
)

const (
	refreshTokenCookieName = "refresh_token"
	accessTokenQueryParam  = "access_token"
)

// JWTAccessTokenMiddleware accepts "Authorization: Bearer <token>". Websocket
// upgrades may pass the token as the access_token query parameter instead,
// since browsers cannot set headers on them.
func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := accessTokenFromRequest(r)
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			userID, err := s.Authenticate(r.Context(), tokenString)
			if err != nil {
				if errors.Is(err, ErrInternalError) {
					response.RespondError(w, http.StatusInternalServerError, ErrInternalError.Error())
					return
				}
				response.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionCookieMiddleware requires a live session in the refresh_token cookie.
func (s *service) SessionCookieMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(refreshTokenCookieName)
			if err != nil || cookie.Value == "" {
				response.RespondError(w, http.StatusUnauthorized, "Refresh token is required")
				return
			}

			session, err := s.activeSession(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrInternalError) {
					response.RespondError(w, http.StatusInternalServerError, ErrInternalError.Error())
					return
				}
				response.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), "userID", session.UserID)
			ctx = context.WithValue(ctx, "sessionToken", session.SessionToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessTokenFromRequest(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return "", false
		}
		return tokenString, true
	}

	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if token := r.URL.Query().Get(accessTokenQueryParam); token != "" {
			return token, true
		}
	}
	return "", false
}
