package domain

import (
	"strings"
	"time"
)

// SurveyQuestion is a single prompt within a survey.
type SurveyQuestion struct {
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

// Survey is an admin-defined question set.
type Survey struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []SurveyQuestion `json:"questions"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// SurveyResponse is one public submission; Answers align with Questions by index.
type SurveyResponse struct {
	ID        string         `json:"id"`
	SurveyID  string         `json:"surveyId"`
	Answers   []string       `json:"answers"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// MissingRequired returns the indexes of required questions left blank in answers.
func (s Survey) MissingRequired(answers []string) []int {
	var missing []int
	for i, q := range s.Questions {
		if !q.Required {
			continue
		}
		if i >= len(answers) || strings.TrimSpace(answers[i]) == "" {
			missing = append(missing, i)
		}
	}
	return missing
}
