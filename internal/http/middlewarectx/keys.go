// Package middlewarectx содержит HTTP middleware цепочки авторизации:
// проверка сессионного токена, роли и статуса подписки, а также
// ограничение частоты запросов. Проверки выполняются слева направо,
// первая неудача прерывает цепочку до вызова обработчика.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// Email — ключ для email пользователя в контексте
	Email Key = "email"
	// SubscriptionStatus — ключ для статуса подписки в контексте.
	// Статус является снимком на момент выдачи токена.
	SubscriptionStatus Key = "subscription_status"
)
