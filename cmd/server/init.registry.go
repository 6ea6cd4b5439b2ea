package main

import (
	"time"

	"engagement_survey/config"
	analyticshdl "engagement_survey/internal/api/analytics/handler"
	analyticsmodels "engagement_survey/internal/api/analytics/models"
	analyticsrouter "engagement_survey/internal/api/analytics/router"
	analyticssvc "engagement_survey/internal/api/analytics/service"
	authhdl "engagement_survey/internal/api/auth/handler"
	authmodels "engagement_survey/internal/api/auth/models"
	authrouter "engagement_survey/internal/api/auth/router"
	authsvc "engagement_survey/internal/api/auth/service"
	basehdl "engagement_survey/internal/api/base/handler"
	basesvc "engagement_survey/internal/api/base/service"
	bulkhdl "engagement_survey/internal/api/bulk/handler"
	bulkrouter "engagement_survey/internal/api/bulk/router"
	bulksvc "engagement_survey/internal/api/bulk/service"
	companyhdl "engagement_survey/internal/api/company/handler"
	companymodels "engagement_survey/internal/api/company/models"
	companyrouter "engagement_survey/internal/api/company/router"
	companysvc "engagement_survey/internal/api/company/service"
	"engagement_survey/internal/api/events"
	"engagement_survey/internal/api/initsvc"
	"engagement_survey/internal/api/middleware"
	responsehdl "engagement_survey/internal/api/response/handler"
	responsemodels "engagement_survey/internal/api/response/models"
	responserouter "engagement_survey/internal/api/response/router"
	responsesvc "engagement_survey/internal/api/response/service"
	apirouter "engagement_survey/internal/api/router"
	surveyhdl "engagement_survey/internal/api/survey/handler"
	surveymodels "engagement_survey/internal/api/survey/models"
	surveyrouter "engagement_survey/internal/api/survey/router"
	surveysvc "engagement_survey/internal/api/survey/service"
	"engagement_survey/internal/delivery/channels"
	"engagement_survey/internal/global"
	"engagement_survey/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Services gom các service đã được khởi tạo, truyền tường minh cho handler và worker
type Services struct {
	Users     *authsvc.UserService
	Companies *companysvc.CompanyService
	Surveys   *surveysvc.SurveyService
	Questions *surveysvc.QuestionService
	Snippets  *surveysvc.SnippetService
	Responses *responsesvc.ResponseService
	Analytics *analyticssvc.AnalyticsService
	Bulk      *bulksvc.BulkService
	Init      *initsvc.InitService

	responseStore basesvc.BaseServiceMongo[responsemodels.SurveyResponse]
	averageStore  basesvc.BaseServiceMongo[responsemodels.AverageResult]
	rankingStore  basesvc.BaseServiceMongo[responsemodels.FactorRanking]
}

// InitCollections đăng ký các collection MongoDB vào registry
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	for _, name := range global.MongoDB_ColNames.All() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if !registered {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	logrus.Info("Initialized collection registry")
	return nil
}

// store tạo base service cho collection đã đăng ký
func store[T any](name string) (*basesvc.BaseServiceMongoImpl[T], error) {
	col, err := collection(name)
	if err != nil {
		return nil, err
	}
	return basesvc.NewBaseServiceMongo[T](col), nil
}

// InitServices khởi tạo toàn bộ service theo thứ tự phụ thuộc
func InitServices(cfg *config.Configuration, firebase authsvc.FirebaseVerifier, mailer channels.Mailer) (*Services, error) {
	cols := global.MongoDB_ColNames

	users, err := store[authmodels.User](cols.Users)
	if err != nil {
		return nil, err
	}
	companies, err := store[companymodels.Company](cols.Companies)
	if err != nil {
		return nil, err
	}
	surveys, err := store[surveymodels.Survey](cols.Surveys)
	if err != nil {
		return nil, err
	}
	questions, err := store[surveymodels.Question](cols.Questions)
	if err != nil {
		return nil, err
	}
	snippets, err := store[surveymodels.Snippet](cols.Snippets)
	if err != nil {
		return nil, err
	}
	responses, err := store[responsemodels.SurveyResponse](cols.SurveyResponses)
	if err != nil {
		return nil, err
	}
	averages, err := store[responsemodels.AverageResult](cols.AverageResults)
	if err != nil {
		return nil, err
	}
	rankings, err := store[responsemodels.FactorRanking](cols.FactorRankings)
	if err != nil {
		return nil, err
	}
	snapshots, err := store[analyticsmodels.AnalyticsSnapshot](cols.AnalyticsSnapshots)
	if err != nil {
		return nil, err
	}

	s := &Services{responseStore: responses, averageStore: averages, rankingStore: rankings}

	tokens := utility.NewTokenManager(cfg.JwtSecret, time.Duration(cfg.JwtTTLHours)*time.Hour)
	s.Users = authsvc.NewUserService(users, tokens, mailer, firebase)
	s.Companies = companysvc.NewCompanyService(companies)
	s.Surveys = surveysvc.NewSurveyService(surveys)
	s.Questions = surveysvc.NewQuestionService(questions, s.Surveys)
	s.Snippets = surveysvc.NewSnippetService(snippets)

	s.Responses = responsesvc.NewResponseService(responsesvc.Deps{
		Surveys:   s.Surveys,
		Questions: s.Questions,
		Snippets:  s.Snippets,
		Responses: responses,
		Averages:  averages,
		Rankings:  rankings,
	})
	s.Analytics = analyticssvc.NewAnalyticsService(analyticssvc.Deps{
		Surveys:   s.Surveys,
		Users:     users,
		Averages:  averages,
		Rankings:  rankings,
		Snapshots: snapshots,
	}, time.Duration(cfg.AnalyticsFreshMinutes)*time.Minute)

	deps := bulksvc.Deps{Employees: s.Users, Questions: s.Questions, Snippets: s.Snippets}
	if cfg.InviteEmailsEnabled {
		deps.Inviter = bulksvc.NewMailInviter(mailer, s.Companies, cfg.FrontendURL)
	}
	s.Bulk = bulksvc.NewBulkService(deps, cfg.BulkConcurrency)

	s.Init, err = initsvc.NewInitService(users, snippets)
	if err != nil {
		return nil, err
	}

	// Token => session cho mọi route cần đăng nhập
	middleware.SetAuthenticator(s.Users, time.Duration(cfg.AuthCacheSeconds)*time.Second)
	// Ghi câu trả lời/xếp hạng đánh dấu khảo sát cần tính lại snapshot
	events.OnDataChanged(s.Analytics.TrackChanges)

	logrus.Info("Initialized services")
	return s, nil
}

// Routes trả về hàm đăng ký route của từng domain
func (s *Services) Routes(db basehdl.Pinger) []apirouter.RegisterFunc {
	return []apirouter.RegisterFunc{
		authrouter.Register(authhdl.NewUserHandler(s.Users), basehdl.NewSystemHandler(db)),
		companyrouter.Register(companyhdl.NewCompanyHandler(s.Companies)),
		surveyrouter.Register(
			surveyhdl.NewSurveyHandler(s.Surveys),
			surveyhdl.NewQuestionHandler(s.Questions, s.Surveys),
			surveyhdl.NewSnippetHandler(s.Snippets),
		),
		responserouter.Register(
			responsehdl.NewResponseHandler(s.responseStore, s.Responses),
			responsehdl.NewAverageResultHandler(s.averageStore),
			responsehdl.NewFactorRankingHandler(s.rankingStore),
		),
		analyticsrouter.Register(analyticshdl.NewAnalyticsHandler(s.Analytics)),
		bulkrouter.Register(bulkhdl.NewBulkHandler(s.Bulk)),
	}
}
