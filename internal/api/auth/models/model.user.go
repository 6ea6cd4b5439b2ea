// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái tài khoản
const (
	UserStatusInvited     = "invited"     // Được admin/bulk mời, chưa đăng ký mật khẩu
	UserStatusUnconfirmed = "unconfirmed" // Đã đăng ký, chờ nhập mã xác nhận
	UserStatusActive      = "active"
)

// User định nghĩa mô hình người dùng
// Token chứa token xác thực mới nhất của người dùng
// Tokens chứa danh sách các token, mỗi thiết bị khác nhau sẽ có một token riêng để xác thực (bằng hwid)
type User struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID        primitive.ObjectID `json:"companyId,omitempty" bson:"companyId,omitempty" index:"single:1,compound:company_role"`
	FirstName        string             `json:"firstName" bson:"firstName"`
	LastName         string             `json:"lastName" bson:"lastName"`
	Email            string             `json:"email" bson:"email" index:"unique"`
	Role             string             `json:"role" bson:"role" index:"compound:company_role"`
	Status           string             `json:"status" bson:"status"`
	PasswordHash     string             `json:"-" bson:"passwordHash,omitempty"`
	ConfirmCode      string             `json:"-" bson:"confirmCode,omitempty"`
	ConfirmExpiresAt int64              `json:"-" bson:"confirmExpiresAt,omitempty"`
	FirebaseUID      string             `json:"firebaseUid,omitempty" bson:"firebaseUid,omitempty" index:"unique,sparse"`
	Token            string             `json:"-" bson:"token,omitempty" index:"single:1"`
	Tokens           []Token            `json:"-" bson:"tokens"`
	IsBlock          bool               `json:"isBlock" bson:"isBlock"`
	BlockNote        string             `json:"blockNote,omitempty" bson:"blockNote,omitempty"`
	CreatedAt        int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64              `json:"updatedAt" bson:"updatedAt"`
}

// Token token theo hwid (mỗi thiết bị một token).
type Token struct {
	Hwid     string `json:"hwid" bson:"hwid,omitempty"`
	JwtToken string `json:"jwtToken,omitempty" bson:"jwtToken,omitempty"`
}

// SecretFields là các field bson của User không được lộ qua filter, sort hay projection từ client
var SecretFields = []string{"passwordHash", "confirmCode", "confirmExpiresAt", "token", "tokens"}

// FullName ghép họ tên
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CompanyHex trả về id công ty dạng chuỗi, rỗng nếu user không thuộc công ty nào (super admin)
func (u User) CompanyHex() string {
	if u.CompanyID.IsZero() {
		return ""
	}
	return u.CompanyID.Hex()
}

// SetDeviceToken thay token của thiết bị hwid (thêm mới nếu chưa có)
func (u *User) SetDeviceToken(hwid, token string) {
	u.Token = token
	for i := range u.Tokens {
		if u.Tokens[i].Hwid == hwid {
			u.Tokens[i].JwtToken = token
			return
		}
	}
	u.Tokens = append(u.Tokens, Token{Hwid: hwid, JwtToken: token})
}

// ActiveTokens trả về các token đang gắn với user (không trùng, bỏ rỗng)
func (u User) ActiveTokens() []string {
	seen := make(map[string]bool, len(u.Tokens)+1)
	var out []string
	for _, t := range append([]string{u.Token}, tokenValues(u.Tokens)...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func tokenValues(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.JwtToken)
	}
	return out
}

// RemoveDeviceToken xoá token của thiết bị hwid. Token mới nhất bị xoá nếu trùng
func (u *User) RemoveDeviceToken(hwid string) {
	kept := make([]Token, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		if t.Hwid == hwid {
			if t.JwtToken == u.Token {
				u.Token = ""
			}
			continue
		}
		kept = append(kept, t)
	}
	u.Tokens = kept
}

// HasToken kiểm tra token còn được gắn với một thiết bị của user
func (u User) HasToken(token string) bool {
	if token == "" {
		return false
	}
	for _, t := range u.Tokens {
		if t.JwtToken == token {
			return true
		}
	}
	return u.Token == token
}
