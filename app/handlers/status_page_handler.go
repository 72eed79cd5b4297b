// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/panelbridge/panelbridge/app/pages"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/utils"
)

// StatusPageHandlerInterface defines the contract for public status pages
type StatusPageHandlerInterface interface {
	Show(c fiber.Ctx) error
}

// StatusPageHandler serves the per-survey thank-you pages
type StatusPageHandler struct {
	statusPageFlow businessflow.StatusPageFlow
}

// NewStatusPageHandler creates a new status page handler
func NewStatusPageHandler(statusPageFlow businessflow.StatusPageFlow) StatusPageHandlerInterface {
	return &StatusPageHandler{statusPageFlow: statusPageFlow}
}

// Show handles GET /:surveySlug/:status
func (h *StatusPageHandler) Show(c fiber.Ctx) error {
	surveySlug := c.Params("surveySlug")
	statusSegment := c.Params("status")

	ctx, cancel := h.createRequestContext(c, "/"+surveySlug+"/"+statusSegment)
	defer cancel()

	content, err := h.statusPageFlow.GetStatusPage(ctx, surveySlug, statusSegment)
	if err != nil {
		if businessflow.IsInvalidStatusPage(err) || businessflow.IsSurveyNotFound(err) {
			return pages.RenderError(c, fiber.StatusNotFound, pages.ErrorData{
				Title:   "Not Found",
				Message: "This page does not exist.",
			})
		}
		log.Println("Status page lookup failed", err)
		return pages.RenderError(c, fiber.StatusInternalServerError, pages.ErrorData{
			Title:   "Something Went Wrong",
			Message: "We could not load this page. Please try again shortly.",
		})
	}

	return pages.RenderStatus(c, fiber.StatusOK, pages.StatusData{
		Title:   content.Title,
		Message: content.Message,
	})
}

func (h *StatusPageHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	return ctx, cancel
}
