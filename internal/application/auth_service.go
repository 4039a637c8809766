package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

var (
	ErrUserNotFound    = apperror.Auth("user not found")
	ErrInvalidPassword = apperror.Auth("invalid password")
	ErrEmailTaken      = apperror.Conflict("email already registered")
)

type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Pub    EventPublisher
	Logger *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, pub EventPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Pub: pub, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// Register hashes the password and inserts the user. Uniqueness is left to
// the store's constraint.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "password cannot be hashed", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash, IsAdmin: in.IsAdmin}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Store(err)
	}

	publish(ctx, s.Pub, s.Logger, event.Event{
		Type:       event.UserRegistered,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		OccurredAt: nowUTC(),
	})
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Store(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"-"`
	User      *entity.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "token generation failed", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}
