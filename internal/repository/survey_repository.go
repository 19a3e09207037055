package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// SurveyRepository persists surveys. Questions are stored as jsonb.
type SurveyRepository interface {
	Create(ctx context.Context, survey *domain.Survey) error
	GetByID(ctx context.Context, id string) (*domain.Survey, error)
	List(ctx context.Context) ([]domain.Survey, error)
	LatestActive(ctx context.Context) (*domain.Survey, error)
	Delete(ctx context.Context, id string) error
}

// SurveyResponseRepository persists public survey submissions.
type SurveyResponseRepository interface {
	Create(ctx context.Context, response *domain.SurveyResponse) error
	ListBySurvey(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error)
}

type surveyRepository struct{ pool *pgxpool.Pool }

type surveyResponseRepository struct{ pool *pgxpool.Pool }

// NewSurveyRepository instantiates repository.
func NewSurveyRepository(pool *pgxpool.Pool) SurveyRepository {
	return &surveyRepository{pool: pool}
}

// NewSurveyResponseRepository instantiates repository.
func NewSurveyResponseRepository(pool *pgxpool.Pool) SurveyResponseRepository {
	return &surveyResponseRepository{pool: pool}
}

const surveyColumns = `id, title, description, questions, active, created_at, updated_at`

func (r *surveyRepository) Create(ctx context.Context, s *domain.Survey) error {
	const query = `
        INSERT INTO surveys (title, description, questions, active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	questions := s.Questions
	if questions == nil {
		questions = []domain.SurveyQuestion{}
	}
	return r.pool.QueryRow(ctx, query, s.Title, s.Description, questions, s.Active).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	return scanSurvey(r.pool.QueryRow(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id=$1`, id))
}

func (r *surveyRepository) List(ctx context.Context) ([]domain.Survey, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+surveyColumns+` FROM surveys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// LatestActive returns nil without error when no survey is active.
func (r *surveyRepository) LatestActive(ctx context.Context) (*domain.Survey, error) {
	const query = `SELECT ` + surveyColumns + `
        FROM surveys WHERE active ORDER BY created_at DESC LIMIT 1`
	s, err := scanSurvey(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Delete removes the survey; responses go with it through ON DELETE CASCADE.
func (r *surveyRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool, `DELETE FROM surveys WHERE id=$1`, id)
}

func (r *surveyResponseRepository) Create(ctx context.Context, resp *domain.SurveyResponse) error {
	const query = `
        INSERT INTO survey_responses (survey_id, answers, meta)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	answers := resp.Answers
	if answers == nil {
		answers = []string{}
	}
	meta := resp.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return r.pool.QueryRow(ctx, query, resp.SurveyID, answers, meta).Scan(&resp.ID, &resp.CreatedAt)
}

func (r *surveyResponseRepository) ListBySurvey(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	const query = `
        SELECT id, survey_id, answers, meta, created_at
        FROM survey_responses WHERE survey_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.SurveyResponse{}
	for rows.Next() {
		var resp domain.SurveyResponse
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.Answers, &resp.Meta, &resp.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}

func scanSurvey(row pgx.Row) (*domain.Survey, error) {
	var s domain.Survey
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Questions, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
