package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "ragrids/internal/errors"
	"ragrids/internal/model"
	"ragrids/internal/service"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// file itself.
const multipartOverhead = 1 << 20

// UploadHandler receives customer documents.
type UploadHandler struct {
	svc      service.UploadService
	maxBytes int64
}

// NewUploadHandler creates an upload handler accepting files up to maxBytes.
func NewUploadHandler(svc service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

// FileResponse wraps a stored document reference.
type FileResponse struct {
	Message string         `json:"message"`
	Data    *model.FileRef `json:"data"`
}

// Upload godoc
// @Summary Upload a document
// @Description Stores the file in object storage and appends it to the caller's profile.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security UserToken
// @Param id path string true "User ID"
// @Param file formData file true "Document"
// @Success 200 {object} FileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/upload/{id} [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	id, err := ownID(c)
	if err != nil {
		return err
	}

	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.BadRequestError("File too large")
		}
		return apperrors.BadRequestError("File is required")
	}
	if fh.Size > h.maxBytes {
		return apperrors.BadRequestError("File too large")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	ref, err := h.svc.UploadDocument(req.Context(), id, service.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, FileResponse{
		Message: "File uploaded successfully",
		Data:    ref,
	})
}
