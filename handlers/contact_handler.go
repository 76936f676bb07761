package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/types"
	"github.com/gin-gonic/gin"
)

// ContactSuccessMessage is returned after the organizers' notification is accepted by the relay.
const ContactSuccessMessage = "Message sent successfully!"

// ContactHandler handles the contact form endpoints.
type ContactHandler struct {
	contactService ContactServiceInterface
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitContact godoc
// @Summary      Submit the contact form
// @Description  Validates the message and forwards it to the organizer inbox. Limited per client address.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      types.ContactRequest   true  "Contact form"
// @Success      200   {object}  types.ContactResponse
// @Failure      400   {object}  types.ContactResponse  "Field errors"
// @Failure      429   {object}  types.ContactResponse  "Too many submissions"
// @Failure      500   {object}  types.ContactResponse  "Delivery failed"
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.ClientIP()

	// The attempt is charged before the body is read, so malformed bodies
	// count toward the limit too.
	if err := h.contactService.Admit(ctx, clientID); err != nil {
		_ = c.Error(err)
		return
	}

	req, fields := decodeContactRequest(c)
	if len(fields) > 0 {
		_ = c.Error(h.contactService.Reject(fields))
		return
	}

	if err := h.contactService.Deliver(ctx, req, clientID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.ContactResponse{
		Success: true,
		Message: ContactSuccessMessage,
	})
}

// GetRules godoc
// @Summary      Contact form rules
// @Description  The validation patterns and limits the server applies, for client-side checks
// @Tags         contact
// @Produce      json
// @Success      200  {object}  types.StandardResponse{data=types.ContactRules}
// @Router       /api/contact/rules [get]
func (h *ContactHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, types.StandardResponse{
		Success: true,
		Data:    h.contactService.Rules(),
	})
}

// decodeContactRequest reads the JSON body. An empty body decodes to an empty
// form so the field validators report what is missing.
func decodeContactRequest(c *gin.Context) (types.ContactRequest, []apperrors.FieldError) {
	var req types.ContactRequest
	err := c.ShouldBindJSON(&req)

	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, stderrors.Is(err, io.EOF):
		return req, nil
	case stderrors.As(err, &typeErr) && typeErr.Field != "":
		return req, []apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a string", typeErr.Field),
		}}
	default:
		return req, []apperrors.FieldError{{
			Field:   "body",
			Message: "Request body must be a JSON object",
		}}
	}
}
