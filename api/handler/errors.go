package handler

import (
	"errors"

	"github.com/fyerfyer/doc-dashboard/api/middleware"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/fyerfyer/doc-dashboard/internal/upload"
)

// toAppError 把服务层错误映射为HTTP错误
func toAppError(err error) error {
	var rej *upload.Rejection
	switch {
	case errors.As(err, &rej):
		return middleware.NewRejectedError(rej.Message, string(rej.Reason))
	case errors.Is(err, upload.ErrInvalidFile):
		return middleware.NewValidationError("Invalid upload file", err.Error())
	case errors.Is(err, models.ErrCollectionFull):
		return middleware.NewConflictError("Maximum number of documents reached")
	case errors.Is(err, models.ErrDocumentNotFound):
		return middleware.NewNotFoundError("Document not found")
	case errors.Is(err, models.ErrPreviewNotFound):
		return middleware.NewNotFoundError("Preview not found or expired")
	case errors.Is(err, services.ErrUnknownAction):
		return middleware.NewValidationError("Unknown preview action", err.Error())
	default:
		return middleware.NewInternalError("Internal server error", err.Error())
	}
}
