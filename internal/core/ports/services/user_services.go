package services

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// UserSvcFacade manages user accounts.
type UserSvcFacade interface {
	// RegisterUser creates a new user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the matching user.
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)
}

// TokenSvcFacade issues bearer tokens for authenticated users.
type TokenSvcFacade interface {
	// IssueToken creates a signed JWT for the given user.
	IssueToken(user *domain.User) (*dto.LoginResponse, error)
}
