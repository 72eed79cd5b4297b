// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/app/pages"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/utils"
)

// RedirectHandlerInterface defines the contract for the respondent-facing
// redirect endpoints
type RedirectHandlerInterface interface {
	SlugEntry(c fiber.Ctx) error
	LegacyEntry(c fiber.Ctx) error
	SlugExit(c fiber.Ctx) error
	LegacyExit(c fiber.Ctx) error
}

// RedirectHandler handles the entry and exit redirects
type RedirectHandler struct {
	sessionFlow       businessflow.SessionFlow
	interstitial      bool
	interstitialDelay time.Duration
}

// NewRedirectHandler creates a new redirect handler
func NewRedirectHandler(sessionFlow businessflow.SessionFlow, interstitial bool, interstitialDelay time.Duration) RedirectHandlerInterface {
	return &RedirectHandler{
		sessionFlow:       sessionFlow,
		interstitial:      interstitial,
		interstitialDelay: interstitialDelay,
	}
}

// SlugEntry handles GET /r/:surveySlug/:vendorSlug
func (h *RedirectHandler) SlugEntry(c fiber.Ctx) error {
	addr := businessflow.SlugAddress{
		SurveySlug: c.Params("surveySlug"),
		VendorSlug: c.Params("vendorSlug"),
	}
	return h.enter(c, addr, "/r/"+addr.SurveySlug+"/"+addr.VendorSlug)
}

// LegacyEntry handles GET /v/:vendorUuid
func (h *RedirectHandler) LegacyEntry(c fiber.Ctx) error {
	vendorUUID, err := uuid.Parse(c.Params("vendorUuid"))
	if err != nil {
		return h.notFoundPage(c)
	}
	addr := businessflow.UUIDAddress{VendorUUID: vendorUUID}
	return h.enter(c, addr, "/v/"+vendorUUID.String())
}

func (h *RedirectHandler) enter(c fiber.Ctx, addr businessflow.VendorAddress, endpoint string) error {
	metadata := clientMetadata(c)

	ctx, cancel := h.createRequestContext(c, endpoint)
	defer cancel()

	result, err := h.sessionFlow.OpenSession(ctx, addr, captureQueryParams(c), metadata)
	if err != nil {
		return h.redirectError(c, err, "Session open failed")
	}

	c.Redirect().Status(fiber.StatusFound).To(result.RedirectURL)
	return nil
}

// SlugExit handles GET /exit/:surveySlug?tracking_id=...&status=...
func (h *RedirectHandler) SlugExit(c fiber.Ctx) error {
	token := c.Query("tracking_id")
	if token == "" {
		return h.notFoundPage(c)
	}
	addr := businessflow.SlugAddress{SurveySlug: c.Params("surveySlug")}
	status := c.Query("status", addr.DefaultExitStatus())
	return h.exit(c, addr.SurveySlug, token, status, "/exit/"+addr.SurveySlug)
}

// LegacyExit handles GET /r/:sessionId?status=...
func (h *RedirectHandler) LegacyExit(c fiber.Ctx) error {
	token := c.Params("sessionId")
	addr := businessflow.UUIDAddress{}
	status := c.Query("status", addr.DefaultExitStatus())
	return h.exit(c, "", token, status, "/r/"+token)
}

func (h *RedirectHandler) exit(c fiber.Ctx, surveySlug, token, status, endpoint string) error {
	metadata := clientMetadata(c)

	ctx, cancel := h.createRequestContext(c, endpoint)
	defer cancel()

	result, err := h.sessionFlow.ResolveSession(ctx, surveySlug, token, status, captureQueryParams(c), metadata)
	if err != nil {
		return h.redirectError(c, err, "Session resolve failed")
	}

	if h.interstitial {
		return pages.RenderInterstitial(c, fiber.StatusOK, pages.InterstitialData{
			Title:        result.Outcome.PageTitle,
			Message:      result.Message,
			RedirectURL:  result.RedirectURL,
			DelaySeconds: int(h.interstitialDelay.Seconds()),
		})
	}

	c.Redirect().Status(fiber.StatusFound).To(result.RedirectURL)
	return nil
}

// redirectError maps business errors onto respondent-facing pages.
// Missing and inactive entities collapse into the same 404 so probing the
// router never reveals which surveys or vendors exist but are disabled.
func (h *RedirectHandler) redirectError(c fiber.Ctx, err error, logPrefix string) error {
	switch {
	case businessflow.IsNotFoundLike(err):
		return h.notFoundPage(c)
	case businessflow.IsSessionAlreadyResolved(err):
		return pages.RenderError(c, fiber.StatusBadRequest, pages.ErrorData{
			Title:   "Link Already Used",
			Message: "This survey exit link has already been used.",
		})
	case businessflow.IsConfigurationError(err):
		log.Println(logPrefix, err)
		return pages.RenderError(c, fiber.StatusInternalServerError, pages.ErrorData{
			Title:   "Configuration Error",
			Message: "A redirect URL configured for this survey is invalid. Please contact the project manager.",
			Detail:  err.Error(),
		})
	default:
		log.Println(logPrefix, err)
		return pages.RenderError(c, fiber.StatusInternalServerError, pages.ErrorData{
			Title:   "Something Went Wrong",
			Message: "We could not process your request. Please try again shortly.",
		})
	}
}

func (h *RedirectHandler) notFoundPage(c fiber.Ctx) error {
	return pages.RenderError(c, fiber.StatusNotFound, pages.ErrorData{
		Title:   "Not Found",
		Message: "This survey link is not valid.",
	})
}

// captureQueryParams snapshots the query string preserving arrival order
// and key case. fiber's Queries() map would lose both.
func captureQueryParams(c fiber.Ctx) models.QueryParams {
	var params models.QueryParams
	c.RequestCtx().QueryArgs().VisitAll(func(key, value []byte) {
		params = append(params, models.QueryParam{Key: string(key), Value: string(value)})
	})
	return params
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetReferrer(c.Get("Referer"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	return metadata
}

func (h *RedirectHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *RedirectHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}
