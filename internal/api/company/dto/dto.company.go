package companydto

// CompanyCreateInput đầu vào tạo công ty
type CompanyCreateInput struct {
	Name   string `json:"name" validate:"required,max=200,no_xss"`
	Domain string `json:"domain" validate:"omitempty,fqdn"`
}

// CompanyUpdateInput đầu vào cập nhật công ty
type CompanyUpdateInput struct {
	Name   string `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=200,no_xss"`
	Domain string `json:"domain,omitempty" bson:"domain,omitempty" validate:"omitempty,fqdn"`
	Status string `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=active disabled"`
}
