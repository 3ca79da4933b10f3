package services

import (
	"fmt"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/utils"
)

type tokenService struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, expiry time.Duration, issuer string) portssvc.TokenSvcFacade {
	return &tokenService{secret: secret, expiry: expiry, issuer: issuer}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) IssueToken(user *domain.User) (*dto.LoginResponse, error) {
	token, err := utils.GenerateJWT(user.UserID, s.secret, s.expiry, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.expiry),
		User:      dto.ToUserResponse(user),
	}, nil
}
