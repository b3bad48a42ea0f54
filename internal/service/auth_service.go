package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/auth"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
)

// RegisterInput is the payload of a sign-up.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginInput is the payload of a sign-in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthServiceInterface defines the account operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	GetUser(ctx context.Context, userID uint) (*model.User, error)
}

// AuthService implements AuthServiceInterface.
type AuthService struct {
	UserRepo repository.UserRepositoryInterface
	Tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepositoryInterface, tokens *auth.TokenManager, logger zerolog.Logger) AuthServiceInterface {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		logger:   logger.With().Str("component", "auth-service").Logger(),
	}
}

// Register creates the account, its default settings and a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.UserRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, Name: strings.TrimSpace(in.Name), PasswordHash: hash}
	if err := s.UserRepo.CreateUser(ctx, user); repository.IsDuplicate(err) {
		return nil, ErrEmailTaken
	} else if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Info().Uint("user_id", user.ID).Msg("User registered")
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, in.Email)
	if repository.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.VerifyPassword(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, claims.UserID)
}

func (s *AuthService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
