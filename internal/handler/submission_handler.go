package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/middleware"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
	"github.com/stemsi/portfolio-backend/internal/validator"
)

// SubmissionHandler serves the student and admin sides of the project workflow.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	log               zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		log:               log.With().Str("component", "submission_handler").Logger(),
	}
}

// Submit godoc
// POST /api/student/projects
// Multipart form: title, description, assignedAdmin, file.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer closeUpload()

	sub, err := h.submissionService.Submit(c.Request.Context(), claims.Info(), service.SubmitInput{
		Title:              c.PostForm("title"),
		Description:        c.PostForm("description"),
		AssignedAdminEmail: c.PostForm("assignedAdmin"),
		File:               upload,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"project": sub})
}

// ListMine godoc
// GET /api/student/projects
// Lists the caller's submissions with feedback, marks, and progress.
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subs, err := h.submissionService.ListMine(c.Request.Context(), claims.Email)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": subs})
}

// UpdateFile godoc
// PUT /api/student/projects/file
// Multipart form: title, file, optional version.
func (h *SubmissionHandler) UpdateFile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	version, err := optionalVersion(c.PostForm("version"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"version": "version must be a positive integer"})
		return
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer closeUpload()

	sub, err := h.submissionService.UpdateFile(c.Request.Context(), claims.Email, c.PostForm("title"), upload, version)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": sub})
}

// Delete godoc
// DELETE /api/student/projects?title=...
// Deletes the caller's submission with the given title.
func (h *SubmissionHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	title := c.Query("title")
	if title == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"title": "title is a required field"})
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), claims.Email, title); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "project deleted successfully"})
}

// ListAssigned godoc
// GET /api/admin/projects
// Lists submissions assigned to the calling admin.
func (h *SubmissionHandler) ListAssigned(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subs, err := h.submissionService.ListAssigned(c.Request.Context(), claims.Email)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": subs})
}

// Grade godoc
// PUT /api/admin/projects/grade
// Approves or rejects a submission with marks and feedback.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.Grade(c.Request.Context(), claims.Email, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": sub})
}

func (h *SubmissionHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrUnsupportedFile, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrVersionConflict):
		response.Fail(c, http.StatusConflict, response.ErrVersionConflict)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Submission request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// formUpload opens the "file" part of a multipart request. A missing part is
// not an error here; the service reports it as a missing field.
func formUpload(c *gin.Context) (*service.Upload, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{Name: header.Filename, Size: header.Size, Reader: f}, func() { f.Close() }, nil
}

func optionalVersion(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New("invalid version")
	}
	return v, nil
}
