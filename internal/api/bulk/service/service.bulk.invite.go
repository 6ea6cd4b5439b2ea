package bulksvc

import (
	"context"
	"net/url"

	authmodels "engagement_survey/internal/api/auth/models"
	"engagement_survey/internal/delivery/channels"
)

// CompanyNamer trả về tên công ty (companysvc.CompanyService triển khai)
type CompanyNamer interface {
	CompanyName(ctx context.Context, companyID string) (string, error)
}

// MailInviter gửi email mời qua Mailer, link đăng ký trỏ về frontend
type MailInviter struct {
	mailer    channels.Mailer
	companies CompanyNamer
	signUpURL string
}

// NewMailInviter tạo MailInviter. frontendURL là gốc của ứng dụng web
func NewMailInviter(mailer channels.Mailer, companies CompanyNamer, frontendURL string) *MailInviter {
	return &MailInviter{mailer: mailer, companies: companies, signUpURL: frontendURL + "/signup"}
}

// Invite gửi email mời đến user
func (m *MailInviter) Invite(ctx context.Context, user authmodels.User) error {
	companyName, err := m.companies.CompanyName(ctx, user.CompanyHex())
	if err != nil {
		return err
	}
	link := m.signUpURL + "?" + url.Values{"email": {user.Email}}.Encode()
	return m.mailer.Send(ctx, channels.InviteEmail(user.Email, user.FirstName, companyName, link))
}
