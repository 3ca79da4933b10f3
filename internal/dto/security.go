package dto

import "github.com/kontoflow/kontoflow_backend/internal/core/domain"

// CreateSecurityRequest defines the payload for creating a security.
type CreateSecurityRequest struct {
	Name string `json:"name" binding:"required"`
	ISIN string `json:"isin" binding:"required,isin_checksum"`
}

// SecurityResponse defines the data returned for a security.
type SecurityResponse struct {
	SecurityID string `json:"securityID"`
	Name       string `json:"name"`
	ISIN       string `json:"isin"`
}

// ToSecurityResponse converts a domain.Security to SecurityResponse.
func ToSecurityResponse(s *domain.Security) SecurityResponse {
	return SecurityResponse{
		SecurityID: s.SecurityID,
		Name:       s.Name,
		ISIN:       s.ISIN,
	}
}
