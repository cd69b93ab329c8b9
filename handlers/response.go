package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/middleware"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/services"
)

type errorResponse struct {
	Error *services.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: %v", err)
	}
}

// writeError maps a service error code to its HTTP status. Errors that
// are not service errors are reported as UNSPECIFIED.
func writeError(w http.ResponseWriter, err error) {
	serviceErr := &services.Error{}
	if !errors.As(err, &serviceErr) {
		logging.Logger.Errorf("Event ID: UNEXPECTED_ERROR, Description: %v", err)
		serviceErr = services.NewError(services.ErrorCodeUnspecified, "internal error")
	}
	writeJSON(w, statusFor(serviceErr.Code), errorResponse{Error: serviceErr})
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorCodeInvalidIdentifier, services.ErrorCodeValidation:
		return http.StatusBadRequest
	case services.ErrorCodeNotFound:
		return http.StatusNotFound
	case services.ErrorCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case services.ErrorCodeConflict:
		return http.StatusConflict
	case services.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the body into v. Unknown enum values fail here.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return services.NewError(services.ErrorCodeValidation, errors.Wrap(err, "invalid request body").Error())
	}
	return nil
}

// checkRole returns the caller when their role is one of allowedRoles.
func checkRole(r *http.Request, allowedRoles ...models.Role) (middleware.Principal, error) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return middleware.Principal{}, services.NewError(services.ErrorCodeUnauthorized, "not authenticated")
	}
	if len(allowedRoles) == 0 {
		return principal, nil
	}
	for _, role := range allowedRoles {
		if role == principal.Role {
			return principal, nil
		}
	}
	return middleware.Principal{}, services.NewError(services.ErrorCodeForbidden, "access forbidden: insufficient permissions")
}

// checkSelf admits a leader only to their own leader-scoped routes.
func checkSelf(r *http.Request, leaderID string) error {
	principal, err := checkRole(r, models.RoleLeader)
	if err != nil {
		return err
	}
	if principal.AccountID != leaderID {
		return services.NewError(services.ErrorCodeForbidden, "leaders can only view their own team")
	}
	return nil
}
