package companyhdl

import (
	"strings"

	basehdl "engagement_survey/internal/api/base/handler"
	companydto "engagement_survey/internal/api/company/dto"
	models "engagement_survey/internal/api/company/models"
	companysvc "engagement_survey/internal/api/company/service"
	"engagement_survey/internal/session"
)

// CompanyHandler xử lý CRUD công ty. Người không phải super admin chỉ thấy công ty của mình
type CompanyHandler struct {
	*basehdl.BaseHandler[models.Company, companydto.CompanyCreateInput, companydto.CompanyUpdateInput]
}

// NewCompanyHandler tạo CompanyHandler
func NewCompanyHandler(svc *companysvc.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Company, companydto.CompanyCreateInput, companydto.CompanyUpdateInput](svc, "_id", companyFromInput),
	}
}

func companyFromInput(_ session.Session, input *companydto.CompanyCreateInput) (models.Company, error) {
	return models.Company{
		Name:   strings.TrimSpace(input.Name),
		Domain: strings.ToLower(strings.TrimSpace(input.Domain)),
		Status: models.CompanyStatusActive,
	}, nil
}
