package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/mepad/internal/app/system/respond"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the authenticated caller injected into r.Context().
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

// UserFetcher loads fresh user data for a token subject. It returns nil when
// the user no longer exists or is disabled, which signs the caller out.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *User
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer gate                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// Gate turns an Authorization: Bearer header into a User in context.
type Gate struct {
	tokens  *TokenIssuer
	fetcher UserFetcher
	log     *zap.Logger
}

// NewGate creates a Gate. fetcher may be nil, in which case the identity
// carried in the token is trusted as-is.
func NewGate(tokens *TokenIssuer, fetcher UserFetcher, logger *zap.Logger) *Gate {
	return &Gate{tokens: tokens, fetcher: fetcher, log: logger}
}

// LoadBearerUser injects the user into context when the request carries a
// valid token. Requests without one pass through anonymously; RequireSignedIn
// decides whether that is acceptable.
func (g *Gate) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := g.tokens.Parse(raw)
		if err != nil {
			g.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		u := claims.User()
		if g.fetcher != nil {
			u = g.fetcher.FetchUser(r.Context(), claims.Subject)
			if u == nil {
				next.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadBearerUser).
// Anonymous callers get a 401 envelope.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Fail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles.
// Anonymous callers get 401, signed-in callers with the wrong role get 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Fail(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser attaches u to the request context. Tests use it to skip the
// token round-trip.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
