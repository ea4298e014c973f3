package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/service"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
	"github.com/adilevy/guide-roster-api/pkg/response"
)

// RosterHandler exposes scheduling runs, stored months, balance reports,
// manual overrides, and exports.
type RosterHandler struct {
	roster *service.RosterService
	export *service.ExportService
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(roster *service.RosterService, export *service.ExportService) *RosterHandler {
	return &RosterHandler{roster: roster, export: export}
}

func persistQuery(c *gin.Context) bool {
	return c.DefaultQuery("persist", "false") == "true"
}

// Assemble godoc
// @Summary Assemble a month with the built-in engine
// @Tags Roster
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param persist query bool false "Persist the sanitized month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /roster/{year}/{month}/assemble [post]
func (h *RosterHandler) Assemble(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	run, err := h.roster.Assemble(c.Request.Context(), year, month, persistQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, run)
}

// Validate godoc
// @Summary Validate and sanitize an external proposal
// @Tags Roster
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param payload body dto.ValidateProposalRequest true "Proposal payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /roster/{year}/{month}/validate [post]
func (h *RosterHandler) Validate(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ValidateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proposal payload"))
		return
	}
	run, err := h.roster.ValidateProposal(c.Request.Context(), year, month, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, run)
}

// Generate godoc
// @Summary Generate a month through the external generator
// @Tags Roster
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Param persist query bool false "Persist the sanitized month"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /roster/{year}/{month}/generate [post]
func (h *RosterHandler) Generate(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	run, err := h.roster.GenerateMonth(c.Request.Context(), year, month, persistQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, run)
}

// Month godoc
// @Summary Get the stored schedule for a month
// @Tags Roster
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/{year}/{month} [get]
func (h *RosterHandler) Month(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	monthResp, err := h.roster.Month(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, monthResp)
}

// Balance godoc
// @Summary Get the salary-factor fairness report for a month
// @Tags Roster
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/{year}/{month}/balance [get]
func (h *RosterHandler) Balance(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.roster.Balance(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, balance)
}

// SetManual godoc
// @Summary Pin a manual assignment onto a date
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.ManualAssignmentRequest true "Manual assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /roster/manual [put]
func (h *RosterHandler) SetManual(c *gin.Context) {
	var req dto.ManualAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid manual assignment"))
		return
	}
	day, err := h.roster.SetManual(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, day)
}

// ClearManual godoc
// @Summary Release a pinned date back to the engine
// @Tags Roster
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /roster/manual/{date} [delete]
func (h *RosterHandler) ClearManual(c *gin.Context) {
	day, err := dateParam(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.roster.ClearManual(c.Request.Context(), day); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Download a stored month as CSV
// @Tags Roster
// @Produce text/csv
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /roster/{year}/{month}/export/csv [get]
func (h *RosterHandler) ExportCSV(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.export.MonthCSV(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendFile(c, result)
}

// ExportPDF godoc
// @Summary Download a stored month as PDF
// @Tags Roster
// @Produce application/pdf
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /roster/{year}/{month}/export/pdf [get]
func (h *RosterHandler) ExportPDF(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.export.MonthPDF(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendFile(c, result)
}

func (h *RosterHandler) sendFile(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
