package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"os"

	"github.com/rs/zerolog/log"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func (c *EmailConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if !config.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func welcomeEmailBody(name, role string) string {
	return fmt.Sprintf(`<h2>%s님, 환영합니다!</h2>
<p>계정이 <strong>%s</strong> 권한으로 생성되었습니다.</p>
<ul>
<li>근무일지를 기록하고</li>
<li>매장 스케줄과 공지사항을 확인하고</li>
<li>예상 급여를 계산할 수 있습니다.</li>
</ul>`, html.EscapeString(name), html.EscapeString(role))
}

func accountCreatedEmailBody(name, role, password, loginURL string) string {
	return fmt.Sprintf(`<h2>%s님의 계정이 생성되었습니다</h2>
<p>권한: <strong>%s</strong></p>
<div style="background:#f5f5f5;padding:15px;border-radius:8px;margin:20px 0;">
<p style="margin:5px 0;"><strong>이름:</strong> %s</p>
<p style="margin:5px 0;"><strong>임시 비밀번호:</strong> %s</p>
</div>
<p><a href="%s">로그인하기</a></p>
<p>로그인 후 비밀번호를 바로 변경해 주세요.</p>`,
		html.EscapeString(name),
		html.EscapeString(role),
		html.EscapeString(name),
		html.EscapeString(password),
		html.EscapeString(loginURL))
}

func SendWelcomeEmail(email, name, role string) {
	go func() {
		if err := SendEmail(email, "근무 관리 서비스 가입을 환영합니다", welcomeEmailBody(name, role)); err != nil {
			log.Warn().Err(err).Str("to", email).Msg("failed to send welcome email")
		}
	}()
}

// SendAccountCreatedEmail tells a user an admin opened an account for them.
func SendAccountCreatedEmail(email, name, role, password, loginURL string) {
	go func() {
		if err := SendEmail(email, "계정이 생성되었습니다", accountCreatedEmailBody(name, role, password, loginURL)); err != nil {
			log.Warn().Err(err).Str("to", email).Msg("failed to send account email")
			return
		}
		log.Info().Str("to", email).Msg("account email sent")
	}()
}
