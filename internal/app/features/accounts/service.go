// internal/app/features/accounts/service.go
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mepad/internal/app/store/audit"
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mepad/internal/app/system/inputval"
	"github.com/dalemusser/mepad/internal/app/system/normalize"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is satisfied by *userstore.Store.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the public view of an account.
type Profile struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role"`
}

// Session is returned by register and login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}

// LoginFailure is returned for every rejected login. The caller sees only
// "invalid credentials"; the audit trail gets the real reason.
type LoginFailure struct {
	EventType string
	Reason    string
	UserID    *primitive.ObjectID
}

func (e *LoginFailure) Error() string { return "invalid credentials" }

func (e *LoginFailure) Unwrap() error { return apperr.ErrUnauthenticated }

// Service implements registration, login and profile lookup.
type Service struct {
	users  UserStore
	tokens *auth.TokenIssuer
}

func NewService(users UserStore, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a participant account and signs it in. Admin accounts are
// provisioned at startup, never through this path.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Email = normalize.Email(in.Email)
	if err := inputval.Struct(in); err != nil {
		return Session{}, err
	}
	switch normalize.Role(in.Role) {
	case "", models.RoleParticipant:
	case models.RoleAdmin:
		return Session{}, apperr.Invalid("admin accounts cannot be self-registered")
	default:
		return Session{}, apperr.Invalid("role must be participant")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	u, err := s.users.Create(ctx, models.User{
		FullName:     in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleParticipant,
		Status:       models.UserActive,
	})
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = normalize.Email(in.Email)
	if err := inputval.Struct(in); err != nil {
		return Session{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return Session{}, &LoginFailure{EventType: audit.EventLoginFailedUserNotFound, Reason: "user not found"}
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return Session{}, &LoginFailure{EventType: audit.EventLoginFailedWrongPassword, Reason: "wrong password", UserID: &u.ID}
	}
	if u.Status == models.UserDisabled {
		return Session{}, &LoginFailure{EventType: audit.EventLoginFailedUserDisabled, Reason: "account disabled", UserID: &u.ID}
	}
	return s.session(*u)
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, actor authz.Actor) (Profile, error) {
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return Profile{}, err
	}
	return profileOf(*u), nil
}

func (s *Service) session(u models.User) (Session, error) {
	p := profileOf(u)
	token, exp, err := s.tokens.Issue(auth.User{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: p}, nil
}

func profileOf(u models.User) Profile {
	return Profile{ID: u.ID, Name: u.FullName, Email: u.Email, Role: u.Role}
}
