package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatorProbe struct {
	Title    string `json:"title" validate:"required,no_xss"`
	Factor   string `json:"factor" validate:"required,factor"`
	SurveyID string `json:"surveyId" validate:"object_id"`
	Password string `json:"password" validate:"omitempty,strong_password"`
}

func TestCustomValidators(t *testing.T) {
	ok := validatorProbe{Title: "Q3 pulse", Factor: "purpose", SurveyID: "507f1f77bcf86cd799439011", Password: "s3cretpass"}
	assert.NoError(t, Validate.Struct(ok))

	tests := []struct {
		name  string
		probe validatorProbe
	}{
		{"xss", validatorProbe{Title: "<script>alert(1)</script>", Factor: "Growth"}},
		{"factor lạ", validatorProbe{Title: "t", Factor: "Salary"}},
		{"object id sai", validatorProbe{Title: "t", Factor: "Growth", SurveyID: "abc"}},
		{"mật khẩu yếu", validatorProbe{Title: "t", Factor: "Growth", Password: "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate.Struct(tt.probe))
		})
	}
}

func TestCollectionNames(t *testing.T) {
	names := DefaultCollectionNames().All()
	assert.Len(t, names, 9)
	assert.Contains(t, names, "survey_responses")
}
