// Package smtp предоставляет STARTTLS-транспорт для исходящих писем
// платформы: сброса пароля и квитанций об оплате.
package smtp

import "io"

// Client покрывает часть *smtp.Client, нужную для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface интерфейс для SMTP транспорта.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
