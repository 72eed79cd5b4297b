// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/panelbridge/panelbridge/app/dto"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/utils"
)

// SessionHandlerInterface defines the contract for session admin handlers
type SessionHandlerInterface interface {
	ListSessions(c fiber.Ctx) error
	GetSessionStats(c fiber.Ctx) error
}

// SessionHandler handles session listing and stats HTTP requests
type SessionHandler struct {
	sessionAdminFlow businessflow.SessionAdminFlow
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionAdminFlow businessflow.SessionAdminFlow) SessionHandlerInterface {
	return &SessionHandler{sessionAdminFlow: sessionAdminFlow}
}

func (h *SessionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SessionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListSessions handles GET /api/v1/surveys/:surveySlug/sessions
func (h *SessionHandler) ListSessions(c fiber.Ctx) error {
	req := dto.ListSessionsRequest{SurveySlug: c.Params("surveySlug")}
	if page, err := strconv.Atoi(c.Query("page", "1")); err == nil {
		req.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size", "20")); err == nil {
		req.PageSize = pageSize
	}
	if status := c.Query("status"); status != "" {
		req.Status = utils.ToPtr(status)
	}
	if vendorSlug := c.Query("vendor"); vendorSlug != "" {
		req.VendorSlug = utils.ToPtr(vendorSlug)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+req.SurveySlug+"/sessions")
	defer cancel()

	result, err := h.sessionAdminFlow.ListSessions(ctx, &req)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) || businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey or vendor not found", "NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}
		log.Println("Session listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session listing failed", "SESSION_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sessions retrieved successfully", result)
}

// GetSessionStats handles GET /api/v1/surveys/:surveySlug/sessions/stats
func (h *SessionHandler) GetSessionStats(c fiber.Ctx) error {
	surveySlug := c.Params("surveySlug")

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+surveySlug+"/sessions/stats")
	defer cancel()

	result, err := h.sessionAdminFlow.GetSessionStats(ctx, surveySlug)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		log.Println("Session stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session stats failed", "SESSION_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Session stats retrieved successfully", result)
}

func (h *SessionHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	return ctx, cancel
}
