package routes

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/activcleaning/website/internal/db"
	"github.com/activcleaning/website/internal/mailer"
	"github.com/activcleaning/website/internal/sanitize"
)

const maxMessageLength = 2000

// Fixed user-facing messages. Internal failure detail is logged server-side
// and never reaches the caller.
const (
	msgContactSent      = "Mesaj trimis cu succes. Îți mulțumim!"
	msgHoneypotAccepted = "Mesajul a fost trimis."
	msgGDPRRecorded     = "Cererea a fost înregistrată."
	msgValidationFailed = "Validare eșuată"
	msgInvalidBody      = "Cererea nu este validă."
	msgRateLimited      = "Prea multe mesaje trimise. Mai încearcă în scurt timp."
	msgMailUnavailable  = "Mesajul nu a putut fi trimis către emailul companiei. Reîncearcă în scurt timp."
	msgContactFailed    = "Serverul nu a putut procesa cererea."
	msgGDPRFailed       = "Serverul nu a putut procesa cererea GDPR."
)

// ContactStore persists validated form submissions.
type ContactStore interface {
	InsertContactMessage(ctx context.Context, params db.InsertContactMessageParams) (int64, error)
	InsertGDPRRequest(ctx context.Context, params db.InsertGDPRRequestParams) (int64, error)
}

// ContactRoutes registers the contact form endpoints.
type ContactRoutes struct {
	store        ContactStore
	notifier     mailer.Notifier
	log          *slog.Logger
	rateLimitMax int
}

// NewContactRoutes constructs the contact routes. rateLimitMax is the number
// of requests allowed per client IP per rolling hour.
func NewContactRoutes(store ContactStore, notifier mailer.Notifier, log *slog.Logger, rateLimitMax int) *ContactRoutes {
	return &ContactRoutes{
		store:        store,
		notifier:     notifier,
		log:          log,
		rateLimitMax: rateLimitMax,
	}
}

// RegisterRoutes mounts both form endpoints under the rate limited
// /api/contact prefix.
func (h *ContactRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group("/api/contact", rateLimiter(h.rateLimitMax))
	g.POST("", h.handleContact)
	g.POST("/gdpr-request", h.handleGDPRRequest)
}

type contactRequest struct {
	FullName string    `json:"fullName" validate:"required,notblank"`
	Company  string    `json:"company"`
	Email    string    `json:"email" validate:"required,email"`
	Phone    string    `json:"phone"`
	Message  string    `json:"message" validate:"required,notblank,max=2000"`
	Consent  looseBool `json:"consent" validate:"eq=true"`
	Honeypot string    `json:"honeypot"`
}

type gdprRequest struct {
	FullName    string `json:"fullName" validate:"required,notblank"`
	Email       string `json:"email" validate:"required,email"`
	RequestType string `json:"requestType" validate:"required,oneof=export rectification erasure restriction"`
	Message     string `json:"message" validate:"required,notblank,max=2000"`
}

func (h *ContactRoutes) handleContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": msgInvalidBody})
	}

	// Bots fill the hidden field; report success without processing so the
	// detection stays invisible to the sender.
	if strings.TrimSpace(req.Honeypot) != "" {
		return c.JSON(http.StatusOK, map[string]string{"message": msgHoneypotAccepted})
	}

	req.Email = strings.TrimSpace(req.Email)
	if errs := validatePayload(req, contactFieldMessage); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msgValidationFailed, Errors: errs})
	}

	params := db.InsertContactMessageParams{
		FullName:  sanitize.PlainText(req.FullName),
		Company:   sanitize.Nullable(req.Company),
		Email:     strings.ToLower(req.Email),
		Phone:     sanitize.Nullable(req.Phone),
		Message:   truncate(sanitize.PlainText(req.Message), maxMessageLength),
		Consent:   bool(req.Consent),
		IPAddress: clientIP(c),
	}

	id, err := h.store.InsertContactMessage(c.Request().Context(), params)
	if err != nil {
		h.log.Error("Failed to store contact message", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": msgContactFailed})
	}

	err = h.notifier.ContactMessage(c.Request().Context(), mailer.ContactNotification{
		ID:        id,
		FullName:  params.FullName,
		Company:   params.Company.String,
		Email:     params.Email,
		Phone:     params.Phone.String,
		Consent:   params.Consent,
		IPAddress: params.IPAddress.String,
		Message:   params.Message,
	})
	if err != nil {
		// The row is already persisted; only the notification failed.
		h.log.Error("Failed to send contact notification", "id", id, "error", err,
			"unavailable", errors.Is(err, mailer.ErrUnavailable))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": msgMailUnavailable})
	}

	return c.JSON(http.StatusOK, submissionResponse{Message: msgContactSent, ID: id})
}

func (h *ContactRoutes) handleGDPRRequest(c echo.Context) error {
	var req gdprRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": msgInvalidBody})
	}

	req.Email = strings.TrimSpace(req.Email)
	if errs := validatePayload(req, gdprFieldMessage); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msgValidationFailed, Errors: errs})
	}

	params := db.InsertGDPRRequestParams{
		FullName:    sanitize.PlainText(req.FullName),
		Email:       strings.ToLower(req.Email),
		RequestType: req.RequestType,
		Message:     truncate(sanitize.PlainText(req.Message), maxMessageLength),
		IPAddress:   clientIP(c),
	}

	id, err := h.store.InsertGDPRRequest(c.Request().Context(), params)
	if err != nil {
		h.log.Error("Failed to store gdpr request", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": msgGDPRFailed})
	}

	// The record is durable at this point; notification is best effort.
	err = h.notifier.GDPRRequest(c.Request().Context(), mailer.GDPRNotification{
		ID:          id,
		FullName:    params.FullName,
		Email:       params.Email,
		RequestType: params.RequestType,
		IPAddress:   params.IPAddress.String,
		Message:     params.Message,
	})
	if err != nil {
		h.log.Error("Failed to send gdpr notification", "id", id, "error", err)
	}

	return c.JSON(http.StatusOK, submissionResponse{Message: msgGDPRRecorded, ID: id})
}

type submissionResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// rateLimiter builds the token bucket middleware for the contact prefix:
// max requests per client IP, refilled over a rolling hour.
func rateLimiter(max int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(max) / time.Hour.Seconds()),
			Burst:     max,
			ExpiresIn: time.Hour,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": msgRateLimited})
		},
	})
}

func clientIP(c echo.Context) sql.NullString {
	ip := strings.TrimSpace(c.RealIP())
	if ip == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: ip, Valid: true}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
