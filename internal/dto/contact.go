package dto

import "github.com/kontoflow/kontoflow_backend/internal/core/domain"

// CreateContactRequest defines the payload for creating a contact.
type CreateContactRequest struct {
	Name         string `json:"name" binding:"required"`
	Intermediary bool   `json:"intermediary"`
	Self         bool   `json:"self"`
}

// ContactResponse defines the data returned for a contact.
type ContactResponse struct {
	ContactID    string `json:"contactID"`
	Name         string `json:"name"`
	Intermediary bool   `json:"intermediary"`
	Self         bool   `json:"self"`
}

// ToContactResponse converts a domain.Contact to ContactResponse.
func ToContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID:    c.ContactID,
		Name:         c.Name,
		Intermediary: c.Intermediary,
		Self:         c.Self,
	}
}
