// Package permission chứa bảng quyền tĩnh theo role. Quyền có dạng <Resource>.<Action>.
package permission

import (
	"sort"

	"engagement_survey/internal/session"
)

// Các resource có CRUD
const (
	Company        = "Company"
	User           = "User"
	Survey         = "Survey"
	Question       = "Question"
	Snippet        = "Snippet"
	SurveyResponse = "SurveyResponse"
	AverageResult  = "AverageResult"
	FactorRanking  = "FactorRanking"
)

// Các quyền nghiệp vụ ngoài CRUD
const (
	ResponseSubmit = "Response.Submit"
	AnalyticsRead  = "Analytics.Read"
	BulkEmployees  = "Bulk.Employees"
	BulkQuestions  = "Bulk.Questions"
	BulkSnippets   = "Bulk.Snippets"
	all            = "*"
	actionInsert   = ".Insert"
	actionRead     = ".Read"
	actionUpdate   = ".Update"
	actionDelete   = ".Delete"
)

func crud(resource string) []string {
	return []string{resource + actionInsert, resource + actionRead, resource + actionUpdate, resource + actionDelete}
}

func read(resources ...string) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r+actionRead)
	}
	return out
}

var table = buildTable(map[string][]string{
	session.RoleSuperAdmin: {all},
	session.RoleAdmin: concat(
		crud(User),
		read(Company, Survey, Question, Snippet, SurveyResponse, AverageResult, FactorRanking),
		[]string{AnalyticsRead, BulkEmployees, ResponseSubmit},
	),
	session.RoleEmployee: concat(
		read(Company, Survey, Question, Snippet),
		[]string{ResponseSubmit},
	),
})

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func buildTable(src map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(src))
	for role, perms := range src {
		set := make(map[string]bool, len(perms))
		for _, p := range perms {
			set[p] = true
		}
		out[role] = set
	}
	return out
}

// Has kiểm tra role có quyền perm không. perm rỗng luôn được phép
func Has(role, perm string) bool {
	if perm == "" {
		return true
	}
	set, ok := table[role]
	if !ok {
		return false
	}
	return set[all] || set[perm]
}

// Of trả về danh sách quyền của role (đã sắp xếp)
func Of(role string) []string {
	set := table[role]
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsRole kiểm tra role hợp lệ
func IsRole(role string) bool {
	_, ok := table[role]
	return ok
}
