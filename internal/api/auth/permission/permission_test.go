package permission

import (
	"testing"

	"engagement_survey/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestHas(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{session.RoleSuperAdmin, Survey + ".Insert", true},
		{session.RoleSuperAdmin, BulkQuestions, true},
		{session.RoleAdmin, User + ".Insert", true},
		{session.RoleAdmin, Survey + ".Insert", false},
		{session.RoleAdmin, AnalyticsRead, true},
		{session.RoleAdmin, BulkQuestions, false},
		{session.RoleEmployee, Question + ".Read", true},
		{session.RoleEmployee, ResponseSubmit, true},
		{session.RoleEmployee, AnalyticsRead, false},
		{session.RoleEmployee, "", true},
		{"guest", Survey + ".Read", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Has(tt.role, tt.perm), "%s %s", tt.role, tt.perm)
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, []string{"*"}, Of(session.RoleSuperAdmin))
	assert.Contains(t, Of(session.RoleEmployee), ResponseSubmit)
	assert.IsIncreasing(t, Of(session.RoleAdmin))
	assert.True(t, IsRole(session.RoleAdmin))
	assert.False(t, IsRole("root"))
}
