package contact

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/blogsphere-api/internal/forms"
	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
)

const (
	msgSuccess        = "Message sent successfully"
	msgFieldsRequired = "All fields are required"
	msgServerError    = "Server error"
)

type messageCreator interface {
	CreateContactMessage(ctx context.Context, fields models.ContactFields) (models.ContactMessage, error)
}

type Handler struct {
	Store   messageCreator
	log     zerolog.Logger
	m       *metrics.Metrics
	timeout time.Duration
}

func NewHandler(store messageCreator, logger zerolog.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	logger = logger.With().Str("component", "ContactHandler").Logger()
	return &Handler{Store: store, log: logger, m: m, timeout: timeout}
}

// Send
// @Summary Send a contact message
// @Description Stores a contact form submission. All four fields must be non-empty.
// @Tags contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body forms.ContactRequest true "Contact form"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /contact [post]
func (h *Handler) Send(c *gin.Context) {
	var req forms.ContactRequest
	if err := forms.Bind(c, &req); err != nil {
		h.log.Warn().Err(err).Msg("failed to bind contact request")
		h.m.RecordInvalid(metrics.FormContact)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgFieldsRequired})
		return
	}

	if err := forms.Validate(req); err != nil {
		h.log.Debug().Err(err).Msg("contact request rejected")
		h.m.RecordInvalid(metrics.FormContact)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgFieldsRequired})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if _, err := h.Store.CreateContactMessage(ctx, req.Fields()); err != nil {
		h.log.Error().Err(err).Ctx(ctx).Msg("failed to store contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgSuccess})
}
