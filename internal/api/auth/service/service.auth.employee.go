package authsvc

import (
	"context"
	"strings"

	models "engagement_survey/internal/api/auth/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/recordcodec"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"
)

// CreateEmployee tạo nhân viên được mời (role employee, status invited) từ một bản ghi nhập hàng loạt.
// companyID của bản ghi rỗng thì dùng defaultCompany
func (s *UserService) CreateEmployee(ctx context.Context, rec recordcodec.EmployeeRecord, defaultCompany string) (models.User, error) {
	if err := rec.Validate(); err != nil {
		return models.User{}, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, err)
	}
	companyHex := strings.TrimSpace(rec.CompanyID)
	if companyHex == "" {
		companyHex = defaultCompany
	}
	if companyHex == "" {
		return models.User{}, common.ErrRequiredField
	}
	companyID, err := utility.String2ObjectID(companyHex)
	if err != nil {
		return models.User{}, err
	}
	if defaultCompany != "" {
		scope, err := utility.String2ObjectID(defaultCompany)
		if err != nil {
			return models.User{}, err
		}
		if scope != companyID {
			return models.User{}, common.ErrCompanyScope
		}
	}

	email := utility.NormalizeEmail(rec.Email)
	if err := utility.ValidateEmail(email); err != nil {
		return models.User{}, err
	}
	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, common.ErrDuplicate
	}

	return s.InsertOne(ctx, models.User{
		CompanyID: companyID,
		FirstName: strings.TrimSpace(rec.FirstName),
		LastName:  strings.TrimSpace(rec.LastName),
		Email:     email,
		Role:      session.RoleEmployee,
		Status:    models.UserStatusInvited,
		Tokens:    []models.Token{},
	})
}
