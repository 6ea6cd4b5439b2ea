package channels

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// SMTPConfig là cấu hình máy chủ gửi mail
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Email là một email đã render sẵn nội dung
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer gửi email. Dùng interface để service auth/bulk có thể thay bằng bản giả khi test
type Mailer interface {
	Send(ctx context.Context, mail Email) error
}

// SMTPMailer gửi email qua SMTP bằng gomail
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer tạo mailer mới
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send gửi email, trả lỗi ngay nếu context đã huỷ
func (m *SMTPMailer) Send(ctx context.Context, mail Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)
	return m.dialer.DialAndSend(msg)
}

// NoopMailer bỏ qua mọi email (khi INVITE_EMAILS_ENABLED=false hoặc chưa cấu hình SMTP)
type NoopMailer struct{}

// Send không làm gì
func (NoopMailer) Send(ctx context.Context, mail Email) error { return nil }

// ConfirmCodeEmail render email chứa mã xác nhận đăng ký
func ConfirmCodeEmail(to, code string) Email {
	return Email{
		To:      to,
		Subject: "Mã xác nhận tài khoản",
		HTML: fmt.Sprintf(`<p>Mã xác nhận của bạn là:</p><p style="font-size:24px;font-weight:bold;letter-spacing:4px;">%s</p><p>Mã có hiệu lực trong 24 giờ.</p>`,
			html.EscapeString(code)),
	}
}

// InviteEmail render email mời nhân viên tham gia khảo sát
func InviteEmail(to, firstName, companyName, signUpURL string) Email {
	return Email{
		To:      to,
		Subject: fmt.Sprintf("%s mời bạn tham gia khảo sát gắn kết", companyName),
		HTML: fmt.Sprintf(`<p>Xin chào %s,</p><p>%s đã mời bạn tham gia khảo sát gắn kết nhân viên.</p><a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Tạo tài khoản</a>`,
			html.EscapeString(firstName), html.EscapeString(companyName), html.EscapeString(signUpURL)),
	}
}
