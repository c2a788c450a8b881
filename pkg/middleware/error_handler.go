package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iol-platform/logistics-service/pkg/errors"
)

// ContentTypeJSONLD is the content type used for error documents
const ContentTypeJSONLD = "application/ld+json"

// vocabulary published in every error document's @context
const errorVocab = "https://tcfplayground.org"

// ErrorDetail is one entry of an error document's details list
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorDocument is the linked-data error body returned by every error response
type ErrorDocument struct {
	Context map[string]string `json:"@context"`
	Type    string            `json:"@type"`
	Title   string            `json:"title"`
	Details []ErrorDetail     `json:"details"`
}

// NewErrorDocument builds the standard error body for a status and message
func NewErrorDocument(status int, message string) ErrorDocument {
	return ErrorDocument{
		Context: map[string]string{"@vocab": errorVocab},
		Type:    "Error",
		Title:   message,
		Details: []ErrorDetail{{Code: status, Message: message}},
	}
}

func writeErrorDocument(c *gin.Context, status int, message string, abort bool) {
	c.Header("Content-Type", ContentTypeJSONLD)
	if abort {
		c.AbortWithStatusJSON(status, NewErrorDocument(status, message))
		return
	}
	c.JSON(status, NewErrorDocument(status, message))
}

// ErrorHandler is a middleware that renders errors attached to the gin context
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr := errors.MapDomainError(err)
			logError(logger, c, appErr)
			writeErrorDocument(c, appErr.HTTPStatus, appErr.Message, false)
		}
	}
}

// ErrorResponder provides helper methods for sending error responses
type ErrorResponder struct {
	ctx    *gin.Context
	logger *slog.Logger
}

// NewErrorResponder creates a new ErrorResponder
func NewErrorResponder(ctx *gin.Context, logger *slog.Logger) *ErrorResponder {
	return &ErrorResponder{ctx: ctx, logger: logger}
}

// RespondWithError sends an error response
func (r *ErrorResponder) RespondWithError(err error) {
	r.RespondWithAppError(errors.MapDomainError(err))
}

// RespondWithAppError sends an AppError response
func (r *ErrorResponder) RespondWithAppError(appErr *errors.AppError) {
	logError(r.logger, r.ctx, appErr)
	writeErrorDocument(r.ctx, appErr.HTTPStatus, appErr.Message, false)
}

// RespondNotFound sends a 404 response
func (r *ErrorResponder) RespondNotFound(resource string) {
	r.RespondWithAppError(errors.ErrNotFound(resource))
}

// RespondBadRequest sends a 400 response
func (r *ErrorResponder) RespondBadRequest(message string) {
	r.RespondWithAppError(errors.ErrBadRequest(message))
}

// RespondValidationError sends a validation error response
func (r *ErrorResponder) RespondValidationError(message string) {
	r.RespondWithAppError(errors.ErrValidation(message))
}

// RespondInternalError sends a 500 response
func (r *ErrorResponder) RespondInternalError(err error) {
	r.RespondWithAppError(errors.ErrInternal("").Wrap(err))
}

// RespondConflict sends a 409 response
func (r *ErrorResponder) RespondConflict(message string) {
	r.RespondWithAppError(errors.ErrConflict(message))
}

// RespondUnauthorized sends a 401 response
func (r *ErrorResponder) RespondUnauthorized(message string) {
	r.RespondWithAppError(errors.ErrUnauthorized(message))
}

// RespondForbidden sends a 403 response
func (r *ErrorResponder) RespondForbidden(message string) {
	r.RespondWithAppError(errors.ErrForbidden(message))
}

func logError(logger *slog.Logger, c *gin.Context, appErr *errors.AppError) {
	logLevel := slog.LevelError
	if appErr.HTTPStatus < http.StatusInternalServerError {
		logLevel = slog.LevelWarn
	}

	requestID, _ := c.Get(ContextKeyRequestID)

	attrs := []any{
		"code", appErr.Code,
		"message", appErr.Message,
		"status", appErr.HTTPStatus,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"requestId", requestID,
		"clientIP", c.ClientIP(),
	}

	if appErr.Err != nil {
		attrs = append(attrs, "error", appErr.Err.Error())
	}

	logger.Log(c.Request.Context(), logLevel, "API error", attrs...)
}

// AbortWithError aborts the request with an error
func AbortWithError(c *gin.Context, err error) {
	AbortWithAppError(c, errors.MapDomainError(err))
}

// AbortWithAppError aborts the request with an AppError
func AbortWithAppError(c *gin.Context, appErr *errors.AppError) {
	writeErrorDocument(c, appErr.HTTPStatus, appErr.Message, true)
}
