package middleware

import (
	"context"
	"net/http"
	"strings"

	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"

	"go.uber.org/zap"
)

type contextKey string

const (
	UserContextKey      contextKey = "user"
	RequestIDContextKey contextKey = "request_id"
	principalContextKey contextKey = "principal"
)

// AuthMiddleware resolves the caller from a bearer token
type AuthMiddleware struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService services.AuthServiceInterface, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		authService: authService,
		logger:      logger.Named("auth"),
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the request context
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		user, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Debug("token rejected",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Error(err),
			)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		notePrincipal(r.Context(), user.Subject)
		next.ServeHTTP(w, r.WithContext(SetUserContext(r.Context(), user)))
	})
}

// RequireRole middleware ensures the caller has one of the roles
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
		})
	}
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// SetUserContext stores the user in the context
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
