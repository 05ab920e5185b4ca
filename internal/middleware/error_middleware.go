package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/models/dto"
	"github.com/yigit/esgchampions/internal/pkg/apperrors"
	"github.com/yigit/esgchampions/internal/pkg/logger"
)

// errorMapping ties a group of sentinel errors to a response
type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	message string
}

var errorMappings = []errorMapping{
	{
		targets: []error{apperrors.ErrReviewNotPending},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeReviewNotPending,
		message: "Review has already been moderated",
	},
	{
		targets: []error{apperrors.ErrReviewNotFound},
		status:  http.StatusNotFound,
		code:    dto.ErrorCodeReviewNotFound,
		message: "Review not found",
	},
	{
		targets: []error{apperrors.ErrPanelNotFound, apperrors.ErrIndicatorNotFound},
		status:  http.StatusNotFound,
		code:    dto.ErrorCodeCatalogNotFound,
		message: "Catalog entry not found",
	},
	{
		targets: []error{apperrors.ErrChampionNotFound},
		status:  http.StatusNotFound,
		code:    dto.ErrorCodeChampionNotFound,
		message: "Champion not found",
	},
	{
		targets: []error{apperrors.ErrResourceNotFound},
		status:  http.StatusNotFound,
		code:    dto.ErrorCodeResourceNotFound,
		message: "Resource not found",
	},
	{
		targets: []error{apperrors.ErrEmailAlreadyExists},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeEmailTaken,
		message: "Email already registered",
	},
	{
		targets: []error{apperrors.ErrPanelAlreadyExists, apperrors.ErrIndicatorExists},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeCatalogExists,
		message: "Catalog entry already exists",
	},
	{
		targets: []error{apperrors.ErrPanelHasIndicators},
		status:  http.StatusConflict,
		code:    dto.ErrorCodePanelInUse,
		message: "Panel still has indicators",
	},
	{
		targets: []error{apperrors.ErrIndicatorReviewed},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeIndicatorInUse,
		message: "Indicator still has reviews",
	},
	{
		targets: []error{apperrors.ErrResourceAlreadyExists},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeResourceAlreadyExists,
		message: "Resource already exists",
	},
	{
		targets: []error{apperrors.ErrConflict},
		status:  http.StatusConflict,
		code:    dto.ErrorCodeConflict,
		message: "Conflict",
	},
	{
		targets: []error{apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword, apperrors.ErrBadRequest},
		status:  http.StatusBadRequest,
		code:    dto.ErrorCodeValidationFailed,
		message: "Validation failed",
	},
	{
		targets: []error{apperrors.ErrInvalidCredentials},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeInvalidCredentials,
		message: "Invalid credentials",
	},
	{
		targets: []error{apperrors.ErrTokenExpired},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeExpiredToken,
		message: "Token expired",
	},
	{
		targets: []error{apperrors.ErrTokenNotFound},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeTokenNotFound,
		message: "Token not found",
	},
	{
		targets: []error{apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeInvalidToken,
		message: "Invalid token",
	},
	{
		targets: []error{apperrors.ErrNotAuthenticated},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeUnauthorized,
		message: "Authentication required",
	},
	{
		targets: []error{apperrors.ErrPermissionDenied},
		status:  http.StatusForbidden,
		code:    dto.ErrorCodeForbidden,
		message: "Permission denied",
	},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.targets[0], m.targets[1:]...) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		if ce, ok := apperrors.AsCustom(err); ok {
			if ce.Message != "" {
				detail.Message = ce.Message
			}
			if len(ce.Details) > 0 {
				detail = detail.WithDetails(ce.Details)
			}
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical),
	))
}

// HandleBindingError answers a request whose body or query failed to bind
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
