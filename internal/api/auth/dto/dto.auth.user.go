package authdto

// SignUpInput đầu vào đăng ký tài khoản (email + mật khẩu)
type SignUpInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strong_password"`
	FirstName string `json:"firstName" validate:"required,max=100,no_xss"`
	LastName  string `json:"lastName" validate:"required,max=100,no_xss"`
}

// ConfirmSignUpInput đầu vào xác nhận đăng ký bằng mã gửi qua email
type ConfirmSignUpInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResendCodeInput đầu vào gửi lại mã xác nhận
type ResendCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SignInInput đầu vào đăng nhập bằng email/mật khẩu
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required,max=200"`
}

// FirebaseLoginInput đầu vào đăng nhập bằng Firebase ID token.
type FirebaseLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
	Hwid    string `json:"hwid" validate:"required,max=200"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// SignInResult là kết quả đăng nhập: token và hồ sơ người dùng
type SignInResult struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// UserCreateInput đầu vào tạo người dùng (CRUD, admin mời nhân viên).
type UserCreateInput struct {
	CompanyID string `json:"companyId" validate:"omitempty,object_id"`
	FirstName string `json:"firstName" validate:"required,max=100,no_xss"`
	LastName  string `json:"lastName" validate:"required,max=100,no_xss"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"omitempty,oneof=admin employee"`
}

// UserUpdateInput đầu vào cập nhật người dùng (CRUD). Chỉ các field khác rỗng được ghi
type UserUpdateInput struct {
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty" validate:"omitempty,max=100,no_xss"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty" validate:"omitempty,max=100,no_xss"`
	Role      string `json:"role,omitempty" bson:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin cá nhân.
type UserChangeInfoInput struct {
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty" validate:"omitempty,max=100,no_xss"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty" validate:"omitempty,max=100,no_xss"`
}

// BlockUserInput đầu vào khóa người dùng.
type BlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
	Note  string `json:"note" validate:"required,no_xss"`
}

// UnBlockUserInput đầu vào mở khóa người dùng.
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
}
