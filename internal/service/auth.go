package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
)

const minPasswordLength = 6

// AuthService handles registration, login and the current-user lookup.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// login failures cost one password comparison.
	dummyHash func() (string, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },

		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash("devconnector-dummy-password")
		}),
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenResponse, error) {
	var v validator
	v.required(req.Name, "name", "Name is required")
	v.check(isEmail(req.Email), "email", "Please include a valid email")
	v.check(len(req.Password) >= minPasswordLength, "password", "Please enter a password with 6 or more characters")
	if err := v.err(); err != nil {
		return model.TokenResponse{}, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.TokenResponse{}, ErrUserExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.TokenResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.TokenResponse{}, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Avatar:       crypto.AvatarURL(req.Email),
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.TokenResponse{}, ErrUserExists
		}
		return model.TokenResponse{}, err
	}

	return s.issue(user.ID)
}

// Login authenticates a user and returns an auth token. An unknown email and
// a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	var v validator
	v.check(isEmail(req.Email), "email", "Please include a valid email")
	v.check(req.Password != "", "password", "Password is required")
	if err := v.err(); err != nil {
		return model.TokenResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if dummy, herr := s.dummyHash(); herr == nil {
				_ = s.hasher.Compare(dummy, req.Password)
			}
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	return s.issue(user.ID)
}

// CurrentUser returns the user record for userID without its password hash.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Date:   user.CreatedAt,
	}, nil
}

func (s *AuthService) issue(userID string) (model.TokenResponse, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return model.TokenResponse{}, err
	}
	return model.TokenResponse{Token: token}, nil
}
