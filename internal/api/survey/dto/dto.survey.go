package surveydto

// SurveyCreateInput đầu vào tạo khảo sát. companyId bắt buộc với super admin
type SurveyCreateInput struct {
	CompanyID   string `json:"companyId" validate:"omitempty,object_id"`
	Title       string `json:"title" validate:"required,max=200,no_xss"`
	Description string `json:"description" validate:"omitempty,max=2000,no_xss"`
	Status      string `json:"status" validate:"omitempty,oneof=draft open closed"`
	OpensAt     int64  `json:"opensAt" validate:"gte=0"`
	ClosesAt    int64  `json:"closesAt" validate:"omitempty,gtfield=OpensAt"`
}

// SurveyUpdateInput đầu vào cập nhật khảo sát
type SurveyUpdateInput struct {
	Title       string `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=200,no_xss"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Status      string `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=draft open closed"`
	OpensAt     int64  `json:"opensAt,omitempty" bson:"opensAt,omitempty" validate:"gte=0"`
	ClosesAt    int64  `json:"closesAt,omitempty" bson:"closesAt,omitempty" validate:"gte=0"`
}

// QuestionCreateInput đầu vào tạo câu hỏi
type QuestionCreateInput struct {
	SurveyID string `json:"surveyId" validate:"required,object_id"`
	Factor   string `json:"factor" validate:"required,factor"`
	Text     string `json:"text" validate:"required,max=500,no_xss"`
	Order    int    `json:"order" validate:"gte=0"`
}

// QuestionUpdateInput đầu vào cập nhật câu hỏi. Disabled là con trỏ để phân biệt false và không gửi
type QuestionUpdateInput struct {
	Factor   string `json:"factor,omitempty" bson:"factor,omitempty" validate:"omitempty,oneof='Psychological Safety' Purpose Autonomy Growth Recognition"`
	Text     string `json:"text,omitempty" bson:"text,omitempty" validate:"omitempty,max=500,no_xss"`
	Order    *int   `json:"order,omitempty" bson:"order,omitempty" validate:"omitempty,gte=0"`
	Disabled *bool  `json:"disabled,omitempty" bson:"disabled,omitempty"`
}

// SnippetCreateInput đầu vào tạo snippet
type SnippetCreateInput struct {
	Factor   string  `json:"factor" validate:"required,factor"`
	MinScore float64 `json:"minScore" validate:"gte=0,lte=5"`
	MaxScore float64 `json:"maxScore" validate:"gte=0,lte=5,gtefield=MinScore"`
	Text     string  `json:"text" validate:"required,max=2000,no_xss"`
}

// SnippetUpdateInput đầu vào cập nhật snippet
type SnippetUpdateInput struct {
	Text     string   `json:"text,omitempty" bson:"text,omitempty" validate:"omitempty,max=2000,no_xss"`
	MinScore *float64 `json:"minScore,omitempty" bson:"minScore,omitempty" validate:"omitempty,gte=0,lte=5"`
	MaxScore *float64 `json:"maxScore,omitempty" bson:"maxScore,omitempty" validate:"omitempty,gte=0,lte=5"`
}
