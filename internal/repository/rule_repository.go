package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adilevy/guide-roster-api/internal/models"
)

// RuleRepository manages coordinator rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository constructs a RuleRepository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListActive returns rules currently in force.
func (r *RuleRepository) ListActive(ctx context.Context) ([]models.CoordinatorRule, error) {
	const query = `
		SELECT id, kind, guide_id, second_guide_id, active, note, created_at
		FROM coordinator_rules
		WHERE active = TRUE
		ORDER BY id ASC`
	var rules []models.CoordinatorRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return rules, nil
}

// List returns every rule, active or not.
func (r *RuleRepository) List(ctx context.Context) ([]models.CoordinatorRule, error) {
	const query = `
		SELECT id, kind, guide_id, second_guide_id, active, note, created_at
		FROM coordinator_rules
		ORDER BY id ASC`
	var rules []models.CoordinatorRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// Create inserts a rule.
func (r *RuleRepository) Create(ctx context.Context, rule *models.CoordinatorRule) error {
	const query = `
		INSERT INTO coordinator_rules (kind, guide_id, second_guide_id, active, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, rule.Kind, rule.GuideID, rule.SecondGuideID, rule.Active, rule.Note, time.Now().UTC()).
		Scan(&rule.ID, &rule.CreatedAt)
}

// SetActive toggles a rule without deleting its history.
func (r *RuleRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE coordinator_rules SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set rule active: %w", err)
	}
	return requireRow(res)
}

// Delete removes a rule.
func (r *RuleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coordinator_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return requireRow(res)
}
