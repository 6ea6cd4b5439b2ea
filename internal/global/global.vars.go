package global

import (
	"engagement_survey/config"
	"engagement_survey/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Companies          string // Công ty (tenant)
	Users              string // Người dùng: super admin, admin, nhân viên
	Surveys            string // Khảo sát
	Questions          string // Câu hỏi của khảo sát
	Snippets           string // Đoạn nhận xét theo khoảng điểm
	SurveyResponses    string // Câu trả lời của nhân viên
	AverageResults     string // Điểm trung bình theo factor của từng nhân viên
	FactorRankings     string // Xếp hạng mức độ quan trọng của factor
	AnalyticsSnapshots string // Số liệu tổng hợp theo khảo sát
}

// DefaultCollectionNames trả về tên collection mặc định
func DefaultCollectionNames() MongoDB_CollectionName {
	return MongoDB_CollectionName{
		Companies:          "companies",
		Users:              "users",
		Surveys:            "surveys",
		Questions:          "questions",
		Snippets:           "snippets",
		SurveyResponses:    "survey_responses",
		AverageResults:     "average_results",
		FactorRankings:     "factor_rankings",
		AnalyticsSnapshots: "analytics_snapshots",
	}
}

// All trả về danh sách tên collection
func (c MongoDB_CollectionName) All() []string {
	return []string{
		c.Companies, c.Users, c.Surveys, c.Questions, c.Snippets,
		c.SurveyResponses, c.AverageResults, c.FactorRankings, c.AnalyticsSnapshots,
	}
}

// Các biến toàn cục, chỉ dùng ở tầng khởi động (cmd/server) và base service
var Validate *validator.Validate                                       // Validator dùng chung
var MongoDB_Session *mongo.Client                                      // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                         // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = DefaultCollectionNames() // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
