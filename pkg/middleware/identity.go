package middleware

import (
	"net/http"
	"strings"

	"event-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HolderIdentity extracts the opaque holder id from the Authorization header.
// Authentication itself is handled by the gateway in front of this service;
// here the bearer value is only required to be a well-formed UUID so the
// booking core always works with a parseable holder identity.
func HolderIdentity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			holderID, err := uuid.Parse(parts[1])
			if err != nil {
				logger.Warn("Malformed holder identity", zap.String("token", parts[1]))
				utils.ResponseUnauthorized(w, "Invalid holder identity")
				return
			}

			ctx := utils.SetHolderContext(r.Context(), holderID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
