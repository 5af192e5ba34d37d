// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, роль, аватар и
// состояние подписки. Структура используется в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль назначается при регистрации и меняется
// только административным путём, вне публичного API.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Статусы подписки, которые транслирует платёжный провайдер.
const (
	SubscriptionCreated   = "created"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash никогда не сериализуется в ответах API.
// ResetTokenHash и ResetTokenExpiry либо оба заполнены (ожидается сброс
// пароля), либо оба пусты.
type User struct {
	UID              string     `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	Avatar           Avatar     `json:"avatar"`
	Subscription     Sub        `json:"subscription"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Avatar хранит пару идентификаторов файла на медиа-хостинге.
type Avatar struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Sub хранит привязку пользователя к подписке платёжного провайдера.
// Пустые значения означают отсутствие подписки.
type Sub struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}
