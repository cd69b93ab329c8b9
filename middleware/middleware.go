package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/utils"
)

type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "request_id"

	RequestIDHeader = "X-Request-ID"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string
	Role      models.Role
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(claimsKey).(Principal)
	return p, ok
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, claimsKey, p)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Auth validates the bearer token and admits only the given roles. No
// roles means any authenticated account.
func Auth(tokens *utils.TokenManager, allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for %s %s", r.Method, r.URL.Path)
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			role, err := models.ParseRole(claims.Role)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid role in token")
				return
			}
			if len(allowedRoles) > 0 && !contains(allowedRoles, role) {
				logging.Logger.Warnf("Event ID: AUTH_FORBIDDEN_ROLE, Description: Role %s not allowed for %s %s", role, r.Method, r.URL.Path)
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "access forbidden")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{AccountID: claims.AccountID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contains(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger tags every request with an id, echoed in X-Request-ID,
// and logs one line when it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		entry := logging.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"uri":        r.RequestURI,
			"remote_ip":  r.RemoteAddr,
			"status":     rec.status,
			"latency":    time.Since(start).String(),
			"bytes_out":  rec.bytes,
		})
		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Error("Event ID: REQUEST_FAILED, Description: Request failed")
		case rec.status >= http.StatusBadRequest:
			entry.Warn("Event ID: REQUEST_REJECTED, Description: Request rejected")
		default:
			entry.Info("Event ID: REQUEST_COMPLETED, Description: Request completed")
		}
	})
}
