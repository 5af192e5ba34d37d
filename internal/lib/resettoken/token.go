// Package resettoken реализует одноразовые токены сброса пароля.
//
// Пользователю отправляется сырой токен, в базе хранится только его
// SHA-256 хэш и срок действия. При погашении предъявленный токен
// хэшируется и сравнивается с сохранённым значением.
package resettoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// TTL срок действия токена сброса пароля.
const TTL = 15 * time.Minute

// New генерирует криптографически случайный токен и возвращает
// пару (сырой токен, его хэш).
func New() (raw string, hash string, err error) {
	const op = "resettoken.New"
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	raw = hex.EncodeToString(buf)
	return raw, Hash(raw), nil
}

// Hash возвращает hex-представление SHA-256 хэша сырого токена.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
