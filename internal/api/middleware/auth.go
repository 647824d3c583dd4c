// Package middleware holds the HTTP middlewares of the service.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
)

const (
	HeaderStaffID   = "X-Staff-ID"
	HeaderStaffRole = "X-Staff-Role"

	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type contextKey string

const (
	staffIDKey   contextKey = "staff_id"
	staffRoleKey contextKey = "staff_role"
)

// Auth requires X-Staff-ID and puts it, with the optional role, into the context.
// Identity is asserted by the gateway in front of the service.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := strings.TrimSpace(r.Header.Get(HeaderStaffID))
		if staffID == "" {
			handlers.RespondUnauthorized(w, "missing "+HeaderStaffID+" header")
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		if role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderStaffRole))); role != "" {
			ctx = context.WithValue(ctx, staffRoleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets through only staff whose X-Staff-Role is one of roles.
// It must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetStaffRole(r.Context())
			if _, ok := allowed[role]; !ok {
				handlers.RespondForbidden(w, "your role cannot perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetStaffID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDKey).(string)
	return id, ok && id != ""
}

func GetStaffRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(staffRoleKey).(string)
	return role, ok && role != ""
}

// WithStaff returns a context carrying a staff identity, as Auth would set it
func WithStaff(ctx context.Context, staffID, role string) context.Context {
	ctx = context.WithValue(ctx, staffIDKey, staffID)
	if role != "" {
		ctx = context.WithValue(ctx, staffRoleKey, role)
	}
	return ctx
}
