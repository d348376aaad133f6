package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lifebots/assistant-api/internal/database"
	logpkg "github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/models"
	"github.com/lifebots/assistant-api/internal/request"
	"github.com/lifebots/assistant-api/internal/services/auth"
	"go.uber.org/zap"
)

// Auth creates authentication middleware that validates JWT bearer tokens
// and resolves them to a local user record, creating one on first sight.
func Auth(db *database.DB, verifier *auth.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				logger.Warn("token_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userRepo := database.NewUserRepository(db)
			user, err := userRepo.GetByProviderID(ctx, claims.Sub)
			if err != nil {
				// The repository wraps sql.ErrNoRows, so errors.Is will unwrap and check
				if errors.Is(err, sql.ErrNoRows) {
					user = &models.User{
						ID:            uuid.New(),
						Email:         claims.Email,
						ProviderID:    &claims.Sub,
						Name:          &claims.Name,
						EmailVerified: true,
					}
					if err := userRepo.Create(ctx, user); err != nil {
						respondError(w, http.StatusInternalServerError, "Failed to create user")
						return
					}
					logger.Info("created_user_from_token",
						zap.String("user_id", logpkg.SanitizeUserID(user.ID.String())),
					)
				} else {
					logger.Error("database_error_fetching_user", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Database error")
					return
				}
			} else {
				// Refresh profile fields when the provider's claims moved on.
				updateNeeded := false
				if user.Email != claims.Email {
					user.Email = claims.Email
					updateNeeded = true
				}
				if (user.Name == nil && claims.Name != "") || (user.Name != nil && *user.Name != claims.Name) {
					name := claims.Name
					user.Name = &name
					updateNeeded = true
				}
				if updateNeeded {
					if err := userRepo.Update(ctx, user); err != nil {
						logger.Warn("failed_to_update_user_profile", zap.Error(err))
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	_ = json.NewEncoder(w).Encode(response)
}
