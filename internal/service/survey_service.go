package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// SurveyService manages question sets and their public responses.
type SurveyService struct {
	surveys   repository.SurveyRepository
	responses repository.SurveyResponseRepository
	logger    *zap.Logger
}

// SurveyDependencies bundles repositories.
type SurveyDependencies struct {
	SurveyRepo   repository.SurveyRepository
	ResponseRepo repository.SurveyResponseRepository
	Logger       *zap.Logger
}

// NewSurveyService creates the service.
func NewSurveyService(deps SurveyDependencies) *SurveyService {
	return &SurveyService{
		surveys:   deps.SurveyRepo,
		responses: deps.ResponseRepo,
		logger:    loggerOrNop(deps.Logger),
	}
}

// SurveyInput describes a new survey.
type SurveyInput struct {
	Title       string
	Description string
	Questions   []domain.SurveyQuestion
	Active      *bool
}

// Create stores a survey; questions with blank text are dropped.
func (s *SurveyService) Create(ctx context.Context, in SurveyInput) (*domain.Survey, error) {
	title := strings.TrimSpace(in.Title)
	if err := requireField(title, "title"); err != nil {
		return nil, err
	}
	questions := make([]domain.SurveyQuestion, 0, len(in.Questions))
	for _, q := range in.Questions {
		if text := strings.TrimSpace(q.Text); text != "" {
			questions = append(questions, domain.SurveyQuestion{Text: text, Required: q.Required})
		}
	}

	survey := &domain.Survey{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Questions:   questions,
		Active:      in.Active == nil || *in.Active,
	}
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("survey created", zap.String("survey_id", survey.ID), zap.Int("questions", len(questions)))
	return survey, nil
}

// List returns every survey, newest first.
func (s *SurveyService) List(ctx context.Context) ([]domain.Survey, error) {
	return mapList(s.surveys.List(ctx))
}

// Latest returns the newest active survey, or nil when none is active.
func (s *SurveyService) Latest(ctx context.Context) (*domain.Survey, error) {
	survey, err := s.surveys.LatestActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return survey, nil
}

// Delete removes a survey together with its responses.
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	return deleteResource(ctx, "survey", id, s.surveys.Delete)
}

// Respond stores a public submission after checking every required question
// has a non-blank answer.
func (s *SurveyService) Respond(ctx context.Context, surveyID string, answers []string, meta map[string]any) (*domain.SurveyResponse, error) {
	survey, err := s.get(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if missing := survey.MissingRequired(answers); len(missing) > 0 {
		return nil, apperrors.NewValidationError("please answer all required questions", map[string]any{"missing": missing})
	}

	if answers == nil {
		answers = []string{}
	}
	resp := &domain.SurveyResponse{SurveyID: survey.ID, Answers: answers, Meta: meta}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, apperrors.MapError(err)
	}
	return resp, nil
}

// Responses lists submissions for one survey, newest first.
func (s *SurveyService) Responses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	if _, err := s.get(ctx, surveyID); err != nil {
		return nil, err
	}
	return mapList(s.responses.ListBySurvey(ctx, surveyID))
}

func (s *SurveyService) get(ctx context.Context, id string) (*domain.Survey, error) {
	details := map[string]any{"id": id}
	if !validID(id) {
		return nil, apperrors.NewNotFound("survey", details)
	}
	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrMap(err, "survey", details)
	}
	return survey, nil
}
