// Package companysvc - service công ty.
package companysvc

import (
	"context"
	"strings"

	basesvc "engagement_survey/internal/api/base/service"
	models "engagement_survey/internal/api/company/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/utility"
)

// CompanyService là service CRUD công ty
type CompanyService struct {
	basesvc.BaseServiceMongo[models.Company]
}

// NewCompanyService tạo CompanyService
func NewCompanyService(companies basesvc.BaseServiceMongo[models.Company]) *CompanyService {
	return &CompanyService{BaseServiceMongo: companies}
}

// RequireActive trả về công ty nếu tồn tại và đang hoạt động
func (s *CompanyService) RequireActive(ctx context.Context, companyID string) (models.Company, error) {
	id, err := utility.String2ObjectID(companyID)
	if err != nil {
		return models.Company{}, err
	}
	company, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Company{}, err
	}
	if company.Status == models.CompanyStatusDisabled {
		return models.Company{}, common.NewError(common.ErrCodeBusinessState, "Công ty đã bị vô hiệu hoá", common.StatusConflict, nil)
	}
	return company, nil
}

// CompanyName trả về tên công ty (dùng trong email mời)
func (s *CompanyService) CompanyName(ctx context.Context, companyID string) (string, error) {
	company, err := s.RequireActive(ctx, companyID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(company.Name), nil
}
