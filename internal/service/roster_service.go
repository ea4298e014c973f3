package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/generator"
	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/roster"
	"github.com/adilevy/guide-roster-api/pkg/config"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

type rosterGuideRepository interface {
	ListActive(ctx context.Context) ([]models.Guide, error)
}

type rosterConstraintRepository interface {
	ListPersonalInRange(ctx context.Context, from, to time.Time) ([]models.PersonalConstraint, error)
	ListFixed(ctx context.Context) ([]models.FixedConstraint, error)
}

type rosterVacationRepository interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error)
}

type rosterRuleRepository interface {
	ListActive(ctx context.Context) ([]models.CoordinatorRule, error)
}

type rosterWeekendRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]models.WeekendStatus, error)
}

type rosterScheduleRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]models.ScheduleRow, error)
	UpsertGenerated(ctx context.Context, row *models.ScheduleRow) error
	SaveManual(ctx context.Context, row *models.ScheduleRow) error
	ClearManual(ctx context.Context, date time.Time) error
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RosterService orchestrates scheduling runs: snapshot loading, engine
// invocation, persistence, caching, and metrics.
type RosterService struct {
	guides      rosterGuideRepository
	constraints rosterConstraintRepository
	vacations   rosterVacationRepository
	rules       rosterRuleRepository
	weekends    rosterWeekendRepository
	schedule    rosterScheduleRepository
	cache       reportCache
	generator   generator.Client
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	rosterCfg   config.RosterConfig
	genCfg      config.GeneratorConfig
}

// RosterServiceDeps bundles the service's collaborators.
type RosterServiceDeps struct {
	Guides      rosterGuideRepository
	Constraints rosterConstraintRepository
	Vacations   rosterVacationRepository
	Rules       rosterRuleRepository
	Weekends    rosterWeekendRepository
	Schedule    rosterScheduleRepository
	Cache       reportCache
	Generator   generator.Client
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
	RosterCfg   config.RosterConfig
	GenCfg      config.GeneratorConfig
}

// NewRosterService constructs a RosterService.
func NewRosterService(deps RosterServiceDeps) *RosterService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &RosterService{
		guides:      deps.Guides,
		constraints: deps.Constraints,
		vacations:   deps.Vacations,
		rules:       deps.Rules,
		weekends:    deps.Weekends,
		schedule:    deps.Schedule,
		cache:       deps.Cache,
		generator:   deps.Generator,
		metrics:     deps.Metrics,
		validator:   deps.Validator,
		logger:      deps.Logger,
		rosterCfg:   deps.RosterCfg,
		genCfg:      deps.GenCfg,
	}
}

func validateMonth(year, month int) error {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid month %d-%d", year, month))
	}
	return nil
}

func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Snapshot loads every scheduling input for one month. All queries share
// the request context; a failed load aborts the run.
func (s *RosterService) Snapshot(ctx context.Context, year int, month time.Month) (*roster.Snapshot, error) {
	first, last := monthRange(year, month)

	in := snapshotInput{}
	var err error

	if in.guides, err = s.guides.ListActive(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load guides")
	}
	if in.personal, err = s.constraints.ListPersonalInRange(ctx, first, last); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load personal constraints")
	}
	if in.fixed, err = s.constraints.ListFixed(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load fixed constraints")
	}
	if in.vacations, err = s.vacations.ListOverlapping(ctx, first, last); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load vacations")
	}
	if in.rules, err = s.rules.ListActive(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load rules")
	}
	// A Saturday on the 1st inherits the Friday before the month.
	if in.weekends, err = s.weekends.ListInRange(ctx, first.AddDate(0, 0, -1), last); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load weekend statuses")
	}
	if in.schedule, err = s.schedule.ListInRange(ctx, first, last); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load schedule rows")
	}

	return buildSnapshot(year, month, in, s.logger), nil
}

// Assemble runs the engine over a fresh snapshot, validates its own
// output, and persists the sanitized month when persist is set.
func (s *RosterService) Assemble(ctx context.Context, year, month int, persist bool) (*dto.RosterRunResponse, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	start := time.Now()

	snap, err := s.Snapshot(ctx, year, time.Month(month))
	if err != nil {
		s.observeRun("assemble", "error", 0, start)
		return nil, err
	}

	proposal, err := roster.AssembleMonth(ctx, snap)
	if err != nil {
		s.observeRun("assemble", "error", 0, start)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assemble month")
	}

	report := roster.Validate(snap, proposal)
	resp, err := s.finishRun(ctx, "assemble", snap, proposal.Warnings, report, persist, start)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ValidateProposal sanitizes an externally produced month. Structured days
// take precedence; otherwise the raw payload goes through the repair
// pipeline first.
func (s *RosterService) ValidateProposal(ctx context.Context, year, month int, req dto.ValidateProposalRequest) (*dto.RosterRunResponse, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}
	start := time.Now()

	snap, err := s.Snapshot(ctx, year, time.Month(month))
	if err != nil {
		s.observeRun("validate", "error", 0, start)
		return nil, err
	}

	proposal, err := s.proposalFromRequest(req, year, time.Month(month))
	if err != nil {
		s.observeRun("validate", "unparseable", 0, start)
		return nil, err
	}

	report := roster.Validate(snap, proposal)
	return s.finishRun(ctx, "validate", snap, proposal.Warnings, report, req.Persist, start)
}

// GenerateMonth asks the external generator for a proposal and sanitizes
// it. The whole-month call is retried once; after that the service
// degrades to per-day generation and leaves still-unresolved days to the
// validator's completion pass.
func (s *RosterService) GenerateMonth(ctx context.Context, year, month int, persist bool) (*dto.RosterRunResponse, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	if !s.genCfg.Enabled || s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrGeneratorUnavailable, "generator integration is disabled")
	}
	start := time.Now()

	snap, err := s.Snapshot(ctx, year, time.Month(month))
	if err != nil {
		s.observeRun("generate", "error", 0, start)
		return nil, err
	}

	proposal := s.generateProposal(ctx, snap)
	report := roster.Validate(snap, proposal)
	return s.finishRun(ctx, "generate", snap, proposal.Warnings, report, persist, start)
}

func (s *RosterService) generateProposal(ctx context.Context, snap *roster.Snapshot) *roster.Proposal {
	attempts := s.genCfg.MaxAttempts
	if attempts < 1 {
		attempts = 2
	}
	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := s.generator.GenerateMonth(ctx, snap)
		if err != nil {
			s.metrics.ObserveGeneratorCall("month", "error")
			s.logger.Warn("month generation failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		proposal, err := roster.DecodeProposal(raw, snap.Year, snap.Month)
		if err != nil {
			s.metrics.ObserveGeneratorCall("month", "unparseable")
			s.logger.Warn("month proposal unparseable", zap.Error(err))
			continue
		}
		s.metrics.ObserveGeneratorCall("month", "ok")
		return proposal
	}
	return s.generatePerDay(ctx, snap)
}

// generatePerDay is the degraded path: one generator call per unresolved
// date. Days that still fail stay absent and fall through to the
// validator's gap filler.
func (s *RosterService) generatePerDay(ctx context.Context, snap *roster.Snapshot) *roster.Proposal {
	merged := &roster.Proposal{}
	for _, day := range roster.MonthDates(snap.Year, snap.Month) {
		if _, manual := snap.Manual[roster.DayKey(day)]; manual {
			continue
		}
		raw, err := s.generator.GenerateDay(ctx, snap, day)
		if err != nil {
			s.metrics.ObserveGeneratorCall("day", "error")
			s.logger.Warn("day generation failed",
				zap.String("date", roster.DayKey(day)),
				zap.Error(err))
			continue
		}
		proposal, err := roster.DecodeProposal(raw, snap.Year, snap.Month)
		if err != nil {
			s.metrics.ObserveGeneratorCall("day", "unparseable")
			continue
		}
		s.metrics.ObserveGeneratorCall("day", "ok")
		for _, d := range proposal.Days {
			if roster.DayKey(d.Date) == roster.DayKey(day) {
				merged.Days = append(merged.Days, d)
			}
		}
		merged.Warnings = append(merged.Warnings, proposal.Warnings...)
	}
	return merged
}

func (s *RosterService) proposalFromRequest(req dto.ValidateProposalRequest, year int, month time.Month) (*roster.Proposal, error) {
	if len(req.Days) == 0 && req.RawPayload != "" {
		proposal, err := roster.DecodeProposal([]byte(req.RawPayload), year, month)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrProposalUnparseable.Code, appErrors.ErrProposalUnparseable.Status, "raw payload could not be repaired")
		}
		return proposal, nil
	}

	proposal := &roster.Proposal{}
	for _, day := range req.Days {
		parsed, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", day.Date))
		}
		asgn := roster.Assignment{Date: parsed.UTC(), Rationale: day.Rationale}
		for _, slot := range day.Assignments {
			role, err := roster.ParseRole(slot.Role)
			if err != nil {
				proposal.Warnings = append(proposal.Warnings, roster.Warning{
					Date:    asgn.Date,
					Kind:    roster.ViolationUnknownRole,
					GuideID: slot.GuideID,
					Message: err.Error(),
				})
				continue
			}
			asgn.Slots = append(asgn.Slots, roster.Slot{GuideID: slot.GuideID, Role: role})
		}
		proposal.Days = append(proposal.Days, asgn)
	}
	return proposal, nil
}

// finishRun persists, invalidates caches, publishes metrics, and shapes
// the response shared by every run mode.
func (s *RosterService) finishRun(ctx context.Context, mode string, snap *roster.Snapshot, engineWarnings []roster.Warning, report *roster.ValidationReport, persist bool, start time.Time) (*dto.RosterRunResponse, error) {
	if persist {
		if err := s.persistMonth(ctx, report.Sanitized); err != nil {
			s.observeRun(mode, "error", report.Stats.CriticalGaps, start)
			return nil, err
		}
		s.invalidateMonth(ctx, snap.Year, snap.Month)
	}

	s.observeRun(mode, "ok", report.Stats.CriticalGaps, start)

	warnings := append([]roster.Warning(nil), engineWarnings...)
	warnings = append(warnings, report.Warnings...)

	resp := &dto.RosterRunResponse{
		RunID:     uuid.NewString(),
		Year:      snap.Year,
		Month:     int(snap.Month),
		Days:      s.toDayResponses(snap, report.Sanitized),
		Warnings:  dto.NewWarningResponses(warnings),
		Stats:     report.Stats,
		Persisted: persist,
	}
	s.logger.Info("roster run completed",
		zap.String("run_id", resp.RunID),
		zap.String("mode", mode),
		zap.String("month", monthLabel(snap.Year, snap.Month)),
		zap.Int("covered_days", report.Stats.CoveredDays),
		zap.Int("critical_gaps", report.Stats.CriticalGaps),
		zap.Bool("persisted", persist))
	return resp, nil
}

func (s *RosterService) observeRun(mode, outcome string, gaps int, start time.Time) {
	s.metrics.ObserveRosterRun(mode, outcome, gaps, time.Since(start))
}

// persistMonth upserts every sanitized day. Manual rows are guarded at the
// SQL level and survive unchanged.
func (s *RosterService) persistMonth(ctx context.Context, days []roster.Assignment) error {
	for _, day := range days {
		if day.IsManual {
			continue
		}
		row := assignmentToRow(day)
		if err := s.schedule.UpsertGenerated(ctx, &row); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist schedule row")
		}
	}
	return nil
}

func (s *RosterService) invalidateMonth(ctx context.Context, year int, month time.Month) {
	if s.cache == nil || !s.rosterCfg.CacheEnabled {
		return
	}
	pattern := fmt.Sprintf("roster:*:%s", monthLabel(year, month))
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate roster cache", zap.Error(err))
	}
}

// Month returns the stored schedule for one month.
func (s *RosterService) Month(ctx context.Context, year, month int) (*dto.MonthResponse, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	first, last := monthRange(year, time.Month(month))
	rows, err := s.schedule.ListInRange(ctx, first, last)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load schedule rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMonthNotScheduled, fmt.Sprintf("no schedule stored for %04d-%02d", year, month))
	}

	snap := &roster.Snapshot{Year: year, Month: time.Month(month), ClosedWeekends: map[string]bool{}}
	weekends, err := s.weekends.ListInRange(ctx, first.AddDate(0, 0, -1), last)
	if err == nil {
		for _, w := range weekends {
			snap.ClosedWeekends[roster.DayKey(w.FridayDate)] = w.Closed
		}
	}

	resp := &dto.MonthResponse{Year: year, Month: month}
	for _, row := range rows {
		resp.Days = append(resp.Days, s.toDayResponse(snap, rowToAssignment(snap, row)))
	}
	return resp, nil
}

// Balance computes (or serves from cache) the salary-factor fairness
// report for a stored month.
func (s *RosterService) Balance(ctx context.Context, year, month int) (*dto.BalanceResponse, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("roster:balance:%04d-%02d", year, month)
	if s.cache != nil && s.rosterCfg.CacheEnabled {
		cached := &dto.BalanceResponse{}
		if err := s.cache.Get(ctx, key, cached); err == nil {
			s.metrics.ObserveCache(true)
			return cached, nil
		}
		s.metrics.ObserveCache(false)
	}

	snap, err := s.Snapshot(ctx, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	first, last := monthRange(year, time.Month(month))
	rows, err := s.schedule.ListInRange(ctx, first, last)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load schedule rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMonthNotScheduled, fmt.Sprintf("no schedule stored for %04d-%02d", year, month))
	}

	days := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		days = append(days, rowToAssignment(snap, row))
	}

	resp := &dto.BalanceResponse{
		Year:        year,
		Month:       month,
		Report:      roster.ComputeBalance(snap, days),
		GeneratedAt: time.Now().UTC(),
	}
	s.metrics.SetFairnessScore(monthLabel(year, time.Month(month)), resp.Report.FairnessScore)

	if s.cache != nil && s.rosterCfg.CacheEnabled {
		if err := s.cache.Set(ctx, key, resp, s.rosterCfg.ReportCacheTTL); err != nil {
			s.logger.Warn("failed to cache balance report", zap.Error(err))
		}
	}
	return resp, nil
}

// SetManual pins a coordinator override onto a date.
func (s *RosterService) SetManual(ctx context.Context, req dto.ManualAssignmentRequest) (*dto.DayResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual assignment")
	}
	parsed, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", req.Date))
	}
	day := parsed.UTC()

	asgn := roster.Assignment{Date: day, IsManual: true, Rationale: req.Rationale}
	for _, slot := range req.Assignments {
		role, err := roster.ParseRole(slot.Role)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if asgn.Has(slot.GuideID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "guide listed twice")
		}
		asgn.Slots = append(asgn.Slots, roster.Slot{GuideID: slot.GuideID, Role: role})
	}

	row := assignmentToRow(asgn)
	if err := s.schedule.SaveManual(ctx, &row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "save manual assignment")
	}
	s.invalidateMonth(ctx, day.Year(), day.Month())

	resp := s.toDayResponse(&roster.Snapshot{Year: day.Year(), Month: day.Month(), ClosedWeekends: map[string]bool{}}, asgn)
	return &resp, nil
}

// ClearManual releases a pinned date back to the engine.
func (s *RosterService) ClearManual(ctx context.Context, day time.Time) error {
	if err := s.schedule.ClearManual(ctx, dateOnly(day)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "no manual assignment on date")
	}
	s.invalidateMonth(ctx, day.Year(), day.Month())
	return nil
}

func (s *RosterService) toDayResponses(snap *roster.Snapshot, days []roster.Assignment) []dto.DayResponse {
	out := make([]dto.DayResponse, 0, len(days))
	for _, day := range days {
		out = append(out, s.toDayResponse(snap, day))
	}
	return out
}

func (s *RosterService) toDayResponse(snap *roster.Snapshot, day roster.Assignment) dto.DayResponse {
	reqs := roster.ResolveRequirements(day.Date, snap.WeekendClosed(day.Date))
	resp := dto.DayResponse{
		Date:      roster.DayKey(day.Date),
		DayType:   string(reqs.DayType),
		IsManual:  day.IsManual,
		Rationale: day.Rationale,
	}
	for _, slot := range day.Slots {
		resp.Assignments = append(resp.Assignments, dto.SlotPayload{GuideID: slot.GuideID, Role: string(slot.Role)})
	}
	return resp
}
