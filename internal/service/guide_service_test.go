package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adilevy/guide-roster-api/internal/dto"
	"github.com/adilevy/guide-roster-api/internal/models"
	"github.com/adilevy/guide-roster-api/internal/repository"
	appErrors "github.com/adilevy/guide-roster-api/pkg/errors"
)

type mockGuideRepo struct {
	guides  map[int64]models.Guide
	created *models.Guide
}

func (m *mockGuideRepo) List(_ context.Context, _ repository.GuideFilter) ([]models.Guide, int, error) {
	out := make([]models.Guide, 0, len(m.guides))
	for _, g := range m.guides {
		out = append(out, g)
	}
	return out, len(out), nil
}

func (m *mockGuideRepo) FindByID(_ context.Context, id int64) (*models.Guide, error) {
	g, ok := m.guides[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (m *mockGuideRepo) Create(_ context.Context, guide *models.Guide) error {
	guide.ID = 99
	m.created = guide
	return nil
}

func (m *mockGuideRepo) Update(_ context.Context, guide *models.Guide) error {
	if _, ok := m.guides[guide.ID]; !ok {
		return sql.ErrNoRows
	}
	m.guides[guide.ID] = *guide
	return nil
}

func (m *mockGuideRepo) Deactivate(_ context.Context, id int64) error {
	if _, ok := m.guides[id]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

type mockConstraintRepo struct {
	personal []models.PersonalConstraint
	fixed    []models.FixedConstraint
}

func (m *mockConstraintRepo) ListPersonalByGuide(_ context.Context, guideID int64) ([]models.PersonalConstraint, error) {
	return m.personal, nil
}

func (m *mockConstraintRepo) CreatePersonal(_ context.Context, c *models.PersonalConstraint) error {
	m.personal = append(m.personal, *c)
	return nil
}

func (m *mockConstraintRepo) DeletePersonal(context.Context, int64) error { return nil }

func (m *mockConstraintRepo) ListFixed(context.Context) ([]models.FixedConstraint, error) {
	return m.fixed, nil
}

func (m *mockConstraintRepo) CreateFixed(_ context.Context, c *models.FixedConstraint) error {
	m.fixed = append(m.fixed, *c)
	return nil
}

func (m *mockConstraintRepo) DeleteFixed(context.Context, int64) error { return nil }

type mockVacationRepo struct {
	created *models.Vacation
	status  string
}

func (m *mockVacationRepo) ListByGuide(context.Context, int64) ([]models.Vacation, error) {
	return nil, nil
}

func (m *mockVacationRepo) Create(_ context.Context, v *models.Vacation) error {
	m.created = v
	return nil
}

func (m *mockVacationRepo) UpdateStatus(_ context.Context, _ int64, status string) error {
	m.status = status
	return nil
}

func (m *mockVacationRepo) Delete(context.Context, int64) error { return nil }

type mockRuleRepo struct {
	created *models.CoordinatorRule
}

func (m *mockRuleRepo) List(context.Context) ([]models.CoordinatorRule, error) { return nil, nil }

func (m *mockRuleRepo) Create(_ context.Context, rule *models.CoordinatorRule) error {
	rule.ID = 7
	m.created = rule
	return nil
}

func (m *mockRuleRepo) SetActive(context.Context, int64, bool) error { return nil }

func (m *mockRuleRepo) Delete(context.Context, int64) error { return nil }

type mockWeekendRepo struct {
	upserted *models.WeekendStatus
}

func (m *mockWeekendRepo) ListInRange(context.Context, time.Time, time.Time) ([]models.WeekendStatus, error) {
	return nil, nil
}

func (m *mockWeekendRepo) Upsert(_ context.Context, ws *models.WeekendStatus) error {
	m.upserted = ws
	return nil
}

type guideServiceMocks struct {
	guides      *mockGuideRepo
	constraints *mockConstraintRepo
	vacations   *mockVacationRepo
	rules       *mockRuleRepo
	weekends    *mockWeekendRepo
}

func newTestGuideService() (*GuideService, *guideServiceMocks) {
	mocks := &guideServiceMocks{
		guides: &mockGuideRepo{guides: map[int64]models.Guide{
			1: {ID: 1, Name: "Avi", Active: true},
			2: {ID: 2, Name: "Ben", Active: true},
		}},
		constraints: &mockConstraintRepo{},
		vacations:   &mockVacationRepo{},
		rules:       &mockRuleRepo{},
		weekends:    &mockWeekendRepo{},
	}
	svc := NewGuideService(mocks.guides, mocks.constraints, mocks.vacations, mocks.rules, mocks.weekends, nil, zap.NewNop())
	return svc, mocks
}

func TestGuideServiceCreateValidatesPayload(t *testing.T) {
	svc, mocks := newTestGuideService()

	_, err := svc.Create(context.Background(), dto.CreateGuideRequest{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	guide, err := svc.Create(context.Background(), dto.CreateGuideRequest{Name: "Eitan", Email: "eitan@example.org"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), guide.ID)
	assert.True(t, guide.Active)
	assert.Equal(t, "Eitan", mocks.guides.created.Name)
}

func TestGuideServiceGetNotFound(t *testing.T) {
	svc, _ := newTestGuideService()
	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGuideServiceAddPersonalConstraintUnknownGuide(t *testing.T) {
	svc, _ := newTestGuideService()
	_, err := svc.AddPersonalConstraint(context.Background(), dto.CreatePersonalConstraintRequest{
		GuideID: 42,
		Date:    "2025-08-10",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGuideServiceAddFixedConstraint(t *testing.T) {
	svc, mocks := newTestGuideService()
	monday := 1
	c, err := svc.AddFixedConstraint(context.Background(), dto.CreateFixedConstraintRequest{
		GuideID: 1,
		Weekday: &monday,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Weekday)
	assert.Len(t, mocks.constraints.fixed, 1)
}

func TestGuideServiceRequestVacationRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestGuideService()
	_, err := svc.RequestVacation(context.Background(), dto.CreateVacationRequest{
		GuideID:   1,
		StartDate: "2025-08-20",
		EndDate:   "2025-08-10",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGuideServiceRequestVacationStartsPending(t *testing.T) {
	svc, mocks := newTestGuideService()
	v, err := svc.RequestVacation(context.Background(), dto.CreateVacationRequest{
		GuideID:   1,
		StartDate: "2025-08-10",
		EndDate:   "2025-08-12",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VacationPending, v.Status)
	require.NotNil(t, mocks.vacations.created)
}

func TestGuideServiceAddRulePairShape(t *testing.T) {
	svc, mocks := newTestGuideService()
	second := int64(2)

	// Pair rule without a second guide.
	_, err := svc.AddRule(context.Background(), dto.CreateRuleRequest{Kind: "forbid_pair", GuideID: 1})
	require.Error(t, err)

	// Non-pair rule carrying a second guide.
	_, err = svc.AddRule(context.Background(), dto.CreateRuleRequest{Kind: "no_weekends", GuideID: 1, SecondGuideID: &second})
	require.Error(t, err)

	// Self pair.
	self := int64(1)
	_, err = svc.AddRule(context.Background(), dto.CreateRuleRequest{Kind: "avoid_pair", GuideID: 1, SecondGuideID: &self})
	require.Error(t, err)

	// Unknown kind.
	_, err = svc.AddRule(context.Background(), dto.CreateRuleRequest{Kind: "no_mondays", GuideID: 1})
	require.Error(t, err)

	rule, err := svc.AddRule(context.Background(), dto.CreateRuleRequest{Kind: "forbid_pair", GuideID: 1, SecondGuideID: &second})
	require.NoError(t, err)
	assert.True(t, rule.Active)
	assert.Equal(t, int64(7), mocks.rules.created.ID)
}

func TestGuideServiceSetWeekendStatusRequiresFriday(t *testing.T) {
	svc, mocks := newTestGuideService()
	closed := true

	// 2025-08-04 is a Monday.
	_, err := svc.SetWeekendStatus(context.Background(), dto.SetWeekendStatusRequest{FridayDate: "2025-08-04", Closed: &closed})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	ws, err := svc.SetWeekendStatus(context.Background(), dto.SetWeekendStatusRequest{FridayDate: "2025-08-08", Closed: &closed})
	require.NoError(t, err)
	assert.True(t, ws.Closed)
	require.NotNil(t, mocks.weekends.upserted)
	assert.Equal(t, time.Friday, mocks.weekends.upserted.FridayDate.Weekday())
}
