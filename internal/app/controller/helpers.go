package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/service"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/meshur/storefront-backend/internal/middleware"
)

// parseIDParam reads a positive integer path parameter, answering 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseLimit reads ?limit. Absent means the service default.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit must be between 1 and 100")
		return 0, false
	}
	return limit, true
}

func requireSessionID(c *gin.Context) (string, bool) {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return sid, ok
}

// respondServiceError maps service errors onto HTTP responses.
func respondServiceError(c *gin.Context, err error, operation string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
	case errors.Is(err, service.ErrVariantNotFound):
		apperrors.NotFound(c, apperrors.CatalogVariantNotFound, "Variant not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CatalogCategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrBrandNotFound):
		apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"operation": operation,
		})
		apperrors.RespondWithParsedError(c, err, operation)
	}
}

func bindingFailed(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request data", map[string]interface{}{
		"error": err.Error(),
	})
	c.JSON(http.StatusBadRequest, apperrors.ValidationError{
		Error:   apperrors.ValidationInvalidInput,
		Message: "Invalid request data",
		Fields:  map[string]string{"details": err.Error()},
	})
}
