package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/repository"
	"github.com/adilevy/guide-roster-api/internal/service"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
	"github.com/adilevy/guide-roster-api/pkg/response"
)

// GuideHandler exposes guide administration endpoints: profiles,
// constraints, vacations, coordinator rules, and weekend flags.
type GuideHandler struct {
	guides *service.GuideService
}

// NewGuideHandler constructs GuideHandler.
func NewGuideHandler(guides *service.GuideService) *GuideHandler {
	return &GuideHandler{guides: guides}
}

// List godoc
// @Summary List guides
// @Tags Guides
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /guides [get]
func (h *GuideHandler) List(c *gin.Context) {
	var filter repository.GuideFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if active := c.Query("active"); active != "" {
		if active == "true" {
			v := true
			filter.Active = &v
		} else if active == "false" {
			v := false
			filter.Active = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	guides, pagination, err := h.guides.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, guides, pagination)
}

// Get godoc
// @Summary Get guide detail
// @Tags Guides
// @Produce json
// @Param id path int true "Guide ID"
// @Success 200 {object} response.Envelope
// @Router /guides/{id} [get]
func (h *GuideHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	guide, err := h.guides.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, guide)
}

// Create godoc
// @Summary Create guide
// @Tags Guides
// @Accept json
// @Produce json
// @Param payload body dto.CreateGuideRequest true "Guide payload"
// @Success 201 {object} response.Envelope
// @Router /guides [post]
func (h *GuideHandler) Create(c *gin.Context) {
	var req dto.CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guide, err := h.guides.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guide)
}

// Update godoc
// @Summary Update guide
// @Tags Guides
// @Accept json
// @Produce json
// @Param id path int true "Guide ID"
// @Param payload body dto.UpdateGuideRequest true "Guide payload"
// @Success 200 {object} response.Envelope
// @Router /guides/{id} [put]
func (h *GuideHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guide, err := h.guides.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, guide)
}

// Deactivate godoc
// @Summary Deactivate guide
// @Tags Guides
// @Produce json
// @Param id path int true "Guide ID"
// @Success 204 {object} response.Envelope
// @Router /guides/{id} [delete]
func (h *GuideHandler) Deactivate(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.guides.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPersonalConstraints godoc
// @Summary List a guide's single-date blocks
// @Tags Constraints
// @Produce json
// @Param id path int true "Guide ID"
// @Success 200 {object} response.Envelope
// @Router /guides/{id}/constraints [get]
func (h *GuideHandler) ListPersonalConstraints(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	constraints, err := h.guides.ListPersonalConstraints(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, constraints)
}

// AddPersonalConstraint godoc
// @Summary Block a guide on one date
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreatePersonalConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Router /constraints/personal [post]
func (h *GuideHandler) AddPersonalConstraint(c *gin.Context) {
	var req dto.CreatePersonalConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	constraint, err := h.guides.AddPersonalConstraint(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// RemovePersonalConstraint godoc
// @Summary Lift a single-date block
// @Tags Constraints
// @Produce json
// @Param id path int true "Constraint ID"
// @Success 204 {object} response.Envelope
// @Router /constraints/personal/{id} [delete]
func (h *GuideHandler) RemovePersonalConstraint(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.guides.RemovePersonalConstraint(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFixedConstraints godoc
// @Summary List recurring weekday blocks
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints/fixed [get]
func (h *GuideHandler) ListFixedConstraints(c *gin.Context) {
	constraints, err := h.guides.ListFixedConstraints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, constraints)
}

// AddFixedConstraint godoc
// @Summary Block a guide on a recurring weekday
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateFixedConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Router /constraints/fixed [post]
func (h *GuideHandler) AddFixedConstraint(c *gin.Context) {
	var req dto.CreateFixedConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	constraint, err := h.guides.AddFixedConstraint(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// RemoveFixedConstraint godoc
// @Summary Lift a recurring weekday block
// @Tags Constraints
// @Produce json
// @Param id path int true "Constraint ID"
// @Success 204 {object} response.Envelope
// @Router /constraints/fixed/{id} [delete]
func (h *GuideHandler) RemoveFixedConstraint(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.guides.RemoveFixedConstraint(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListVacations godoc
// @Summary List a guide's vacation requests
// @Tags Vacations
// @Produce json
// @Param id path int true "Guide ID"
// @Success 200 {object} response.Envelope
// @Router /guides/{id}/vacations [get]
func (h *GuideHandler) ListVacations(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	vacations, err := h.guides.ListVacations(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, vacations)
}

// RequestVacation godoc
// @Summary Open a vacation request
// @Tags Vacations
// @Accept json
// @Produce json
// @Param payload body dto.CreateVacationRequest true "Vacation payload"
// @Success 201 {object} response.Envelope
// @Router /vacations [post]
func (h *GuideHandler) RequestVacation(c *gin.Context) {
	var req dto.CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	vacation, err := h.guides.RequestVacation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacation)
}

// ReviewVacation godoc
// @Summary Approve or reject a vacation request
// @Tags Vacations
// @Accept json
// @Produce json
// @Param id path int true "Vacation ID"
// @Param payload body dto.UpdateVacationStatusRequest true "Status payload"
// @Success 204 {object} response.Envelope
// @Router /vacations/{id}/status [put]
func (h *GuideHandler) ReviewVacation(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateVacationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.guides.ReviewVacation(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRules godoc
// @Summary List coordinator rules
// @Tags Rules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rules [get]
func (h *GuideHandler) ListRules(c *gin.Context) {
	rules, err := h.guides.ListRules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rules)
}

// AddRule godoc
// @Summary Add a coordinator rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param payload body dto.CreateRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /rules [post]
func (h *GuideHandler) AddRule(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rule, err := h.guides.AddRule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// SetRuleActive godoc
// @Summary Toggle a coordinator rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Success 204 {object} response.Envelope
// @Router /rules/{id}/active [put]
func (h *GuideHandler) SetRuleActive(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "active flag required"))
		return
	}
	if err := h.guides.SetRuleActive(c.Request.Context(), id, *payload.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListWeekends godoc
// @Summary List weekend flags for a month
// @Tags Weekends
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month"
// @Success 200 {object} response.Envelope
// @Router /weekends/{year}/{month} [get]
func (h *GuideHandler) ListWeekends(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	weekends, err := h.guides.ListWeekends(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, weekends)
}

// SetWeekendStatus godoc
// @Summary Flag a weekend as closed or open
// @Tags Weekends
// @Accept json
// @Produce json
// @Param payload body dto.SetWeekendStatusRequest true "Weekend payload"
// @Success 200 {object} response.Envelope
// @Router /weekends [put]
func (h *GuideHandler) SetWeekendStatus(c *gin.Context) {
	var req dto.SetWeekendStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ws, err := h.guides.SetWeekendStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ws)
}
