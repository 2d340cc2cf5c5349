package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
)

// StudentRecordHandler exposes the standalone student record collection.
type StudentRecordHandler struct {
	recordService *service.StudentRecordService
	log           zerolog.Logger
}

// NewStudentRecordHandler creates a new StudentRecordHandler.
func NewStudentRecordHandler(recordService *service.StudentRecordService, log zerolog.Logger) *StudentRecordHandler {
	return &StudentRecordHandler{
		recordService: recordService,
		log:           log.With().Str("component", "student_record_handler").Logger(),
	}
}

// Create godoc
// POST /api/students
// Inserts a student record. Any validation or save failure answers 400 {error}.
func (h *StudentRecordHandler) Create(c *gin.Context) {
	var req model.CreateStudentRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.LegacyError(c, http.StatusBadRequest, response.MsgStudentSaveFailed)
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).Msg("Student record rejected")
		response.LegacyError(c, http.StatusBadRequest, response.MsgStudentSaveFailed)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// List godoc
// GET /api/students
// Lists student records, newest first.
func (h *StudentRecordHandler) List(c *gin.Context) {
	records, err := h.recordService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Fetch student records failed")
		response.LegacyError(c, http.StatusInternalServerError, response.MsgStudentFetchFailed)
		return
	}

	c.JSON(http.StatusOK, records)
}
