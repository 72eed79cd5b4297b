// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/panelbridge/panelbridge/app/dto"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/utils"
)

// VendorHandlerInterface defines the contract for vendor management handlers
type VendorHandlerInterface interface {
	CreateVendor(c fiber.Ctx) error
	GetVendor(c fiber.Ctx) error
	ListVendors(c fiber.Ctx) error
	UpdateVendor(c fiber.Ctx) error
	DeleteVendor(c fiber.Ctx) error
}

// VendorHandler handles vendor-related HTTP requests
type VendorHandler struct {
	vendorFlow businessflow.VendorFlow
	validator  *validator.Validate
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorFlow businessflow.VendorFlow) VendorHandlerInterface {
	return &VendorHandler{
		vendorFlow: vendorFlow,
		validator:  validator.New(),
	}
}

func (h *VendorHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *VendorHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateVendor handles POST /api/v1/surveys/:surveySlug/vendors
func (h *VendorHandler) CreateVendor(c fiber.Ctx) error {
	var req dto.CreateVendorRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SurveySlug = c.Params("surveySlug")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+req.SurveySlug+"/vendors")
	defer cancel()

	result, err := h.vendorFlow.CreateVendor(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		if businessflow.IsVendorURLInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Base redirect URL is invalid", "VENDOR_URL_INVALID", nil)
		}
		log.Println("Vendor creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor creation failed", "VENDOR_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Vendor created successfully", result)
}

// GetVendor handles GET /api/v1/surveys/:surveySlug/vendors/:vendorSlug
func (h *VendorHandler) GetVendor(c fiber.Ctx) error {
	surveySlug := c.Params("surveySlug")
	vendorSlug := c.Params("vendorSlug")

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+surveySlug+"/vendors/"+vendorSlug)
	defer cancel()

	result, err := h.vendorFlow.GetVendor(ctx, surveySlug, vendorSlug)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) || businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", "VENDOR_NOT_FOUND", nil)
		}
		log.Println("Vendor lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor lookup failed", "VENDOR_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendor retrieved successfully", result)
}

// ListVendors handles GET /api/v1/surveys/:surveySlug/vendors
func (h *VendorHandler) ListVendors(c fiber.Ctx) error {
	surveySlug := c.Params("surveySlug")

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+surveySlug+"/vendors")
	defer cancel()

	result, err := h.vendorFlow.ListVendors(ctx, surveySlug)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", "SURVEY_NOT_FOUND", nil)
		}
		log.Println("Vendor listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor listing failed", "VENDOR_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendors retrieved successfully", result)
}

// UpdateVendor handles PUT /api/v1/surveys/:surveySlug/vendors/:vendorSlug
func (h *VendorHandler) UpdateVendor(c fiber.Ctx) error {
	var req dto.UpdateVendorRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SurveySlug = c.Params("surveySlug")
	req.VendorSlug = c.Params("vendorSlug")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+req.SurveySlug+"/vendors/"+req.VendorSlug)
	defer cancel()

	result, err := h.vendorFlow.UpdateVendor(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) || businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", "VENDOR_NOT_FOUND", nil)
		}
		if businessflow.IsVendorURLInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Base redirect URL is invalid", "VENDOR_URL_INVALID", nil)
		}
		log.Println("Vendor update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor update failed", "VENDOR_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendor updated successfully", result)
}

// DeleteVendor handles DELETE /api/v1/surveys/:surveySlug/vendors/:vendorSlug
func (h *VendorHandler) DeleteVendor(c fiber.Ctx) error {
	surveySlug := c.Params("surveySlug")
	vendorSlug := c.Params("vendorSlug")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/surveys/"+surveySlug+"/vendors/"+vendorSlug)
	defer cancel()

	err := h.vendorFlow.DeleteVendor(ctx, surveySlug, vendorSlug, metadata)
	if err != nil {
		if businessflow.IsSurveyNotFound(err) || businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", "VENDOR_NOT_FOUND", nil)
		}
		log.Println("Vendor deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor deletion failed", "VENDOR_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendor deleted successfully", nil)
}

func (h *VendorHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *VendorHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}
