package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(address, subject, body string) error
}

// SMTP 通过 gomail 发送 HTML 邮件
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
}

func (s *SMTP) Send(address, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.fromAddr(), s.AppName))
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", address, err)
	}
	return nil
}

func (s *SMTP) fromAddr() string {
	if s.From != "" {
		return s.From
	}
	return s.Username
}

// LogOnly 未配置 SMTP 时的开发模式：只打日志
type LogOnly struct {
	Logger *zap.Logger
}

func (l *LogOnly) Send(address, subject, body string) error {
	l.Logger.Info("mail not sent, smtp not configured",
		zap.String("to", address),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// New 根据配置选择 SMTP 或 LogOnly
func New(host string, port int, username, password, from, appName string, logger *zap.Logger) Mailer {
	if host == "" || (username == "" && from == "") {
		return &LogOnly{Logger: logger}
	}
	return &SMTP{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		AppName:  appName,
	}
}
