package models

import "time"

// Payment представляет подтверждённый платёж за подписку.
type Payment struct {
	ID             int       `json:"id"`
	UserUID        string    `json:"user_uid"`
	PaymentID      string    `json:"payment_id"`
	SubscriptionID string    `json:"subscription_id"`
	Signature      string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Receipt содержит данные для письма-квитанции, публикуемые
// в очередь уведомлений после подтверждения платежа.
type Receipt struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	PaymentID      string `json:"payment_id"`
	SubscriptionID string `json:"subscription_id"`
}
