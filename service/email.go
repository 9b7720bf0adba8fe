package service

import (
	"fmt"
	"html"
	"io"
	"strings"

	"spending/config"
	"spending/models"

	"gopkg.in/gomail.v2"
)

// Mailer 发送邮件的最小接口，便于测试替换
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	dialer Mailer
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Enabled 是否已启用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// ReportAttachment 报表附件
type ReportAttachment struct {
	Filename string
	Data     []byte
}

// SendReport 把报表以附件形式发送
func (s *EmailService) SendReport(to string, rep *PeriodReport, attachment ReportAttachment) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 SPENDING_EMAIL_ENABLED=true")
	}
	if strings.TrimSpace(to) == "" {
		return invalid("to", "must not be empty")
	}

	m := s.newMessage(to, fmt.Sprintf("Spending report %s", rep.Period), generateReportEmailBody(rep))
	data := attachment.Data
	m.Attach(attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

// generateReportEmailBody 生成报表邮件正文：合计与未记账差额
func generateReportEmailBody(rep *PeriodReport) string {
	var untracked strings.Builder
	for _, l := range rep.Lines {
		if !l.Untracked {
			continue
		}
		fmt.Fprintf(&untracked, "<li>%s: $%s</li>", html.EscapeString(l.PaymentMethod), l.Total.StringFixed(2))
	}
	untrackedHTML := "<p>All credit card payments are covered by recorded expenses.</p>"
	if untracked.Len() > 0 {
		untrackedHTML = fmt.Sprintf("<p>%s by card:</p><ul>%s</ul>", models.UntrackedExpenseType, untracked.String())
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Spending report %s</h2>
    <p>Total: <strong>$%s</strong> across %d transactions.</p>
    %s
    <p style="color: #666;">The full breakdown is attached. Generated %s.</p>
</body>
</html>
`, rep.Period, rep.Total.StringFixed(2), rep.TransactionCount, untrackedHTML, rep.GeneratedAt.Format("2006-01-02 15:04"))
}
