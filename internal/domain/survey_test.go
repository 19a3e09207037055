package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurveyMissingRequired(t *testing.T) {
	survey := Survey{Questions: []SurveyQuestion{
		{Text: "Name", Required: true},
		{Text: "Comments"},
		{Text: "City", Required: true},
	}}

	assert.Empty(t, survey.MissingRequired([]string{"Asha", "", "Pune"}))
	assert.Equal(t, []int{2}, survey.MissingRequired([]string{"Asha", "great"}))
	assert.Equal(t, []int{0, 2}, survey.MissingRequired([]string{"  ", "x", "\t"}))
	assert.Equal(t, []int{0, 2}, survey.MissingRequired(nil))
	assert.Empty(t, Survey{}.MissingRequired(nil))
}
