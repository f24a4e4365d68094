package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	"github.com/ilindan-dev/follower-notifier/internal/metrics"
	"github.com/ilindan-dev/follower-notifier/internal/service"
	"github.com/ilindan-dev/follower-notifier/internal/signature"
	"github.com/rs/zerolog"
)

const (
	headerDelivery = "X-GitHub-Delivery"
	headerEvent    = "X-GitHub-Event"
)

type Handlers struct {
	service      *service.WebhookService
	metrics      *metrics.Metrics
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(cfg *config.Config, service *service.WebhookService, m *metrics.Metrics, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		service:      service,
		metrics:      m,
		maxBodyBytes: cfg.HTTP.MaxBodyBytes,
		logger:       logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the webhook API.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook", h.HandleWebhook)
}

// HandleWebhook handles a GitHub webhook delivery.
// The body is read once and the same bytes are used for verification and decoding.
func (h *Handlers) HandleWebhook(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to read request body")
		h.metrics.RecordWebhook("invalid")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable or too large request body"})
		return
	}

	result, err := h.service.HandleDelivery(c.Request.Context(), model.Delivery{
		ID:        c.GetHeader(headerDelivery),
		Event:     c.GetHeader(headerEvent),
		Signature: c.GetHeader(signature.Header),
		Payload:   payload,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.RecordWebhook(string(result.Outcome))
	resp := WebhookResponse{
		Status:   string(result.Outcome),
		Channels: result.Report.Configured,
		Failed:   len(result.Report.Failures),
	}
	// Duplicates never reach the fan-out and carry no dispatch.
	if result.Report.ID != uuid.Nil {
		resp.DispatchID = &result.Report.ID
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps the service error classes to HTTP statuses.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAuthentication):
		h.metrics.RecordWebhook("unauthorized")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "signature verification failed"})
	case errors.Is(err, model.ErrValidation):
		h.metrics.RecordWebhook("invalid")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotification):
		h.metrics.RecordWebhook("notification_failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error().Err(err).Msg("failed to handle webhook")
		h.metrics.RecordWebhook("internal_error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
