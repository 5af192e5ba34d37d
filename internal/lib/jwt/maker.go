// Package jwt реализует генерацию и парсинг JWT токенов сессии
// с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов,
// MakerImpl — конкретная реализация с секретным ключом и сроком жизни.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
//
// Claims токена являются снимком данных пользователя на момент выдачи:
// изменение роли или статуса подписки не отражается в уже выданных
// токенах до повторного входа.
type Maker interface {
	// GenerateToken создаёт токен с uid, ролью, email и статусом подписки
	GenerateToken(userUID, role, email, subscriptionStatus string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен валиден и не истёк
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
