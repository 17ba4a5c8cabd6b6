// internal/app/features/accounts/routes.go
package accounts

import (
	"net/http"

	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/auth subrouter. limit guards the credential
// endpoints; nil means no limit.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.With(limit).Post("/register", h.HandleRegister)
	r.With(limit).Post("/login", h.HandleLogin)
	r.With(auth.RequireSignedIn).Get("/me", h.HandleMe)
	return r
}
