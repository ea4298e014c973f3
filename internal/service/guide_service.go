package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/repository"
	"github.com/adilevy/guide-roster-api/internal/roster"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

type guideRepository interface {
	List(ctx context.Context, filter repository.GuideFilter) ([]models.Guide, int, error)
	FindByID(ctx context.Context, id int64) (*models.Guide, error)
	Create(ctx context.Context, guide *models.Guide) error
	Update(ctx context.Context, guide *models.Guide) error
	Deactivate(ctx context.Context, id int64) error
}

type constraintRepository interface {
	ListPersonalByGuide(ctx context.Context, guideID int64) ([]models.PersonalConstraint, error)
	CreatePersonal(ctx context.Context, c *models.PersonalConstraint) error
	DeletePersonal(ctx context.Context, id int64) error
	ListFixed(ctx context.Context) ([]models.FixedConstraint, error)
	CreateFixed(ctx context.Context, c *models.FixedConstraint) error
	DeleteFixed(ctx context.Context, id int64) error
}

type vacationRepository interface {
	ListByGuide(ctx context.Context, guideID int64) ([]models.Vacation, error)
	Create(ctx context.Context, v *models.Vacation) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type ruleRepository interface {
	List(ctx context.Context) ([]models.CoordinatorRule, error)
	Create(ctx context.Context, rule *models.CoordinatorRule) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type weekendRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]models.WeekendStatus, error)
	Upsert(ctx context.Context, ws *models.WeekendStatus) error
}

// GuideService covers guide administration: profiles, constraints,
// vacations, coordinator rules, and weekend flags.
type GuideService struct {
	guides      guideRepository
	constraints constraintRepository
	vacations   vacationRepository
	rules       ruleRepository
	weekends    weekendRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGuideService constructs a GuideService.
func NewGuideService(guides guideRepository, constraints constraintRepository, vacations vacationRepository, rules ruleRepository, weekends weekendRepository, validate *validator.Validate, logger *zap.Logger) *GuideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GuideService{
		guides:      guides,
		constraints: constraints,
		vacations:   vacations,
		rules:       rules,
		weekends:    weekends,
		validator:   validate,
		logger:      logger,
	}
}

// List returns guides with paging metadata.
func (s *GuideService) List(ctx context.Context, filter repository.GuideFilter) ([]models.Guide, *models.Pagination, error) {
	guides, total, err := s.guides.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list guides")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return guides, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one guide.
func (s *GuideService) Get(ctx context.Context, id int64) (*models.Guide, error) {
	guide, err := s.guides.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("guide %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "fetch guide")
	}
	return guide, nil
}

// Create registers a guide.
func (s *GuideService) Create(ctx context.Context, req dto.CreateGuideRequest) (*models.Guide, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guide payload")
	}
	guide := &models.Guide{Name: req.Name, Email: req.Email, Phone: req.Phone, Active: true}
	if err := s.guides.Create(ctx, guide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create guide")
	}
	s.logger.Info("guide created", zap.Int64("guide_id", guide.ID))
	return guide, nil
}

// Update rewrites a guide's profile.
func (s *GuideService) Update(ctx context.Context, id int64, req dto.UpdateGuideRequest) (*models.Guide, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guide payload")
	}
	guide := &models.Guide{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Active: *req.Active}
	if err := s.guides.Update(ctx, guide); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("guide %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update guide")
	}
	return guide, nil
}

// Deactivate disables a guide; history stays intact.
func (s *GuideService) Deactivate(ctx context.Context, id int64) error {
	if err := s.guides.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("guide %d not found", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "deactivate guide")
	}
	return nil
}

// ListPersonalConstraints returns one guide's single-date blocks.
func (s *GuideService) ListPersonalConstraints(ctx context.Context, guideID int64) ([]models.PersonalConstraint, error) {
	constraints, err := s.constraints.ListPersonalByGuide(ctx, guideID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list personal constraints")
	}
	return constraints, nil
}

// AddPersonalConstraint blocks a guide on one date.
func (s *GuideService) AddPersonalConstraint(ctx context.Context, req dto.CreatePersonalConstraintRequest) (*models.PersonalConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	if _, err := s.Get(ctx, req.GuideID); err != nil {
		return nil, err
	}
	day, _ := time.Parse("2006-01-02", req.Date)
	c := &models.PersonalConstraint{GuideID: req.GuideID, Date: day.UTC(), Note: req.Note}
	if err := s.constraints.CreatePersonal(ctx, c); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create personal constraint")
	}
	return c, nil
}

// RemovePersonalConstraint lifts a single-date block.
func (s *GuideService) RemovePersonalConstraint(ctx context.Context, id int64) error {
	if err := s.constraints.DeletePersonal(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete personal constraint")
	}
	return nil
}

// ListFixedConstraints returns every recurring weekday block.
func (s *GuideService) ListFixedConstraints(ctx context.Context) ([]models.FixedConstraint, error) {
	constraints, err := s.constraints.ListFixed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list fixed constraints")
	}
	return constraints, nil
}

// AddFixedConstraint blocks a guide on a recurring weekday.
func (s *GuideService) AddFixedConstraint(ctx context.Context, req dto.CreateFixedConstraintRequest) (*models.FixedConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}
	if _, err := s.Get(ctx, req.GuideID); err != nil {
		return nil, err
	}
	c := &models.FixedConstraint{GuideID: req.GuideID, Weekday: *req.Weekday, Note: req.Note}
	if err := s.constraints.CreateFixed(ctx, c); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create fixed constraint")
	}
	return c, nil
}

// RemoveFixedConstraint lifts a recurring weekday block.
func (s *GuideService) RemoveFixedConstraint(ctx context.Context, id int64) error {
	if err := s.constraints.DeleteFixed(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete fixed constraint")
	}
	return nil
}

// ListVacations returns one guide's absence requests.
func (s *GuideService) ListVacations(ctx context.Context, guideID int64) ([]models.Vacation, error) {
	vacations, err := s.vacations.ListByGuide(ctx, guideID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list vacations")
	}
	return vacations, nil
}

// RequestVacation opens a pending absence request.
func (s *GuideService) RequestVacation(ctx context.Context, req dto.CreateVacationRequest) (*models.Vacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}
	if _, err := s.Get(ctx, req.GuideID); err != nil {
		return nil, err
	}
	v := &models.Vacation{
		GuideID:   req.GuideID,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Status:    models.VacationPending,
		Note:      req.Note,
	}
	if err := s.vacations.Create(ctx, v); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create vacation")
	}
	return v, nil
}

// ReviewVacation approves or rejects a request. Only approved vacations
// block scheduling.
func (s *GuideService) ReviewVacation(ctx context.Context, id int64, req dto.UpdateVacationStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err := s.vacations.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "vacation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update vacation status")
	}
	return nil
}

// ListRules returns coordinator rules.
func (s *GuideService) ListRules(ctx context.Context) ([]models.CoordinatorRule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list rules")
	}
	return rules, nil
}

// AddRule creates a coordinator rule after checking the kind against the
// engine's closed enum and the pair-rule shape.
func (s *GuideService) AddRule(ctx context.Context, req dto.CreateRuleRequest) (*models.CoordinatorRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rule payload")
	}
	kind, err := roster.ParseRuleKind(req.Kind)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	isPair := kind == roster.RuleForbidPair || kind == roster.RuleAvoidPair
	if isPair && req.SecondGuideID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pair rules require second_guide_id")
	}
	if !isPair && req.SecondGuideID != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "second_guide_id is only valid for pair rules")
	}
	if isPair && *req.SecondGuideID == req.GuideID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pair rule cannot reference the same guide twice")
	}
	if _, err := s.Get(ctx, req.GuideID); err != nil {
		return nil, err
	}
	if req.SecondGuideID != nil {
		if _, err := s.Get(ctx, *req.SecondGuideID); err != nil {
			return nil, err
		}
	}

	rule := &models.CoordinatorRule{
		Kind:          string(kind),
		GuideID:       req.GuideID,
		SecondGuideID: req.SecondGuideID,
		Active:        true,
		Note:          req.Note,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create rule")
	}
	s.logger.Info("coordinator rule created",
		zap.Int64("rule_id", rule.ID),
		zap.String("kind", rule.Kind))
	return rule, nil
}

// SetRuleActive toggles a rule.
func (s *GuideService) SetRuleActive(ctx context.Context, id int64, active bool) error {
	if err := s.rules.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "toggle rule")
	}
	return nil
}

// ListWeekends returns weekend flags for a month.
func (s *GuideService) ListWeekends(ctx context.Context, year, month int) ([]models.WeekendStatus, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	first, last := monthRange(year, time.Month(month))
	weekends, err := s.weekends.ListInRange(ctx, first.AddDate(0, 0, -1), last)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list weekend statuses")
	}
	return weekends, nil
}

// SetWeekendStatus flags a weekend closed or open. The date must be a
// Friday; Saturdays inherit and never carry their own flag.
func (s *GuideService) SetWeekendStatus(ctx context.Context, req dto.SetWeekendStatusRequest) (*models.WeekendStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekend payload")
	}
	day, _ := time.Parse("2006-01-02", req.FridayDate)
	day = day.UTC()
	if day.Weekday() != time.Friday {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weekend status is keyed by Friday date")
	}
	ws := &models.WeekendStatus{FridayDate: day, Closed: *req.Closed}
	if err := s.weekends.Upsert(ctx, ws); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "upsert weekend status")
	}
	return ws, nil
}
