// Package router đăng ký các route thuộc domain survey: khảo sát, câu hỏi, snippet.
package router

import (
	"github.com/gofiber/fiber/v3"

	"engagement_survey/internal/api/auth/permission"
	"engagement_survey/internal/api/middleware"
	apirouter "engagement_survey/internal/api/router"
	surveyhdl "engagement_survey/internal/api/survey/handler"
)

// Register trả về hàm đăng ký CRUD /survey, /question, /snippet
func Register(surveys *surveyhdl.SurveyHandler, questions *surveyhdl.QuestionHandler, snippets *surveyhdl.SnippetHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterCRUDRoutes(v1, "/survey", surveys, apirouter.ReadWriteConfig, permission.Survey)
		r.RegisterCRUDRoutes(v1, "/question", questions, apirouter.ReadWriteConfig, permission.Question)
		r.RegisterCRUDRoutes(v1, "/snippet", snippets, apirouter.ReadWriteConfig, permission.Snippet)

		readQuestions := []fiber.Handler{middleware.AuthMiddleware(permission.Question + ".Read")}
		apirouter.RegisterRouteWithMiddleware(v1, "/survey", fiber.MethodGet, "/:id/questions", readQuestions, questions.HandleSurveyQuestions)
		return nil
	}
}
