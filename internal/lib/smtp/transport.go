package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
)

// Transport открывает аутентифицированные SMTP-соединения, через которые
// платформа шлёт письма сброса пароля и квитанции об оплате. Сервер обязан
// поддерживать STARTTLS, открытый текст не используется.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

// smtpClientWrapper адаптирует *smtp.Client под интерфейс Client.
type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error {
	return w.client.Mail(from)
}

func (w *smtpClientWrapper) Rcpt(to string) error {
	return w.client.Rcpt(to)
}

func (w *smtpClientWrapper) Data() (io.WriteCloser, error) {
	return w.client.Data()
}

func (w *smtpClientWrapper) Quit() error {
	return w.client.Quit()
}

func (w *smtpClientWrapper) Close() error {
	return w.client.Close()
}

// NewTransport возвращает транспорт поверх настроек SMTP из конфигурации.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect устанавливает TCP-соединение с SMTP сервером, переводит его в TLS
// через STARTTLS и проходит PLAIN-аутентификацию. Клиента закрывает
// вызывающий через Quit или Close.
func (t *Transport) Connect() (Client, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial SMTP server", slog.String("addr", addr), sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	fail := func(msg string, err error) (Client, error) {
		if err != nil {
			t.log.Error(msg, sl.Err(err))
		} else {
			t.log.Error(msg)
		}
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
		if err == nil {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fail("smtp server does not support STARTTLS", nil)
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fail("failed to start TLS", err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		return fail("smtp auth failed", err)
	}

	return &smtpClientWrapper{client: client}, nil
}

// GetSMTPUser возвращает учётную запись SMTP, она же адрес отправителя
// во всех исходящих письмах.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}
