package newsletter

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
	msgSuccess       = "Subscription successful"
	msgEmailRequired = "Email is required"
	msgServerError   = "Server error"
)

type subscriptionCreator interface {
	CreateSubscription(ctx context.Context, email string) (models.NewsletterSubscription, error)
}

type Handler struct {
	Store   subscriptionCreator
	log     zerolog.Logger
	m       *metrics.Metrics
	timeout time.Duration
}

func NewHandler(store subscriptionCreator, logger zerolog.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	logger = logger.With().Str("component", "NewsletterHandler").Logger()
	return &Handler{Store: store, log: logger, m: m, timeout: timeout}
}

// Subscribe
// @Summary Subscribe to the newsletter
// @Description Stores an email address as a newsletter subscription. Duplicates are accepted.
// @Tags newsletter
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body forms.NewsletterRequest true "Subscriber email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /newsletter [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req forms.NewsletterRequest
	if err := forms.Bind(c, &req); err != nil {
		h.log.Warn().Err(err).Msg("failed to bind newsletter request")
		h.m.RecordInvalid(metrics.FormNewsletter)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmailRequired})
		return
	}

	if err := forms.Validate(req); err != nil {
		h.log.Debug().Err(err).Msg("newsletter request rejected")
		h.m.RecordInvalid(metrics.FormNewsletter)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmailRequired})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if _, err := h.Store.CreateSubscription(ctx, req.Email); err != nil {
		h.log.Error().Err(err).Ctx(ctx).Msg("failed to store newsletter subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgSuccess})
}
