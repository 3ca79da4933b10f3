package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// contactHandler handles HTTP requests related to contacts.
type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func newContactHandler(cs portssvc.ContactSvcFacade) *contactHandler {
	return &contactHandler{contactService: cs}
}

// registerContactRoutes registers routes related to contacts.
func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := newContactHandler(contactService)

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:contactID", h.getContact)
	}
}

// createContact godoc
// @Summary Create a new contact
// @Description Creates a counter-party contact; at most one contact may be marked as self
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A self contact already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts [post]
func (h *contactHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create contact")
		return
	}

	logger.Info("Contact created", slog.String("contact_id", contact.ContactID))
	c.JSON(http.StatusCreated, dto.ToContactResponse(contact))
}

// listContacts godoc
// @Summary List contacts
// @Description Retrieves the contacts of the logged-in user
// @Tags contacts
// @Produce json
// @Success 200 {array} dto.ContactResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts [get]
func (h *contactHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to list contacts")
		return
	}

	resp := make([]dto.ContactResponse, len(contacts))
	for i := range contacts {
		resp[i] = dto.ToContactResponse(&contacts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getContact godoc
// @Summary Get a contact by ID
// @Description Retrieves details of a specific contact
// @Tags contacts
// @Produce json
// @Param contactID path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts/{contactID} [get]
func (h *contactHandler) getContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	contactID := c.Param("contactID")

	contact, err := h.contactService.GetContactByID(c.Request.Context(), ownerID, contactID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve contact")
		return
	}

	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}
