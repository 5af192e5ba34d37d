package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Нарушение уникального индекса по email транслируется в ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (full_name, email, password_hash, role,
			      avatar_public_id, avatar_secure_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Role,
		user.Avatar.PublicID, user.Avatar.SecureURL).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var subID, subStatus, resetHash sql.NullString
	var resetExpiry sql.NullTime
	if err := row.Scan(&u.UID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Avatar.PublicID, &u.Avatar.SecureURL, &subID, &subStatus,
		&resetHash, &resetExpiry, &u.CreatedAt); err != nil {
		return nil, err
	}
	if subID.Valid {
		u.Subscription.ID = subID.String
	}
	if subStatus.Valid {
		u.Subscription.Status = subStatus.String
	}
	if resetHash.Valid {
		u.ResetTokenHash = &resetHash.String
	}
	if resetExpiry.Valid {
		u.ResetTokenExpiry = &resetExpiry.Time
	}
	return u, nil
}

const userColumns = `uid, full_name, email, password_hash, role,
			      avatar_public_id, avatar_secure_url, subscription_id,
			      subscription_status, reset_token_hash, reset_token_expiry, created_at`

// GetUserByEmail возвращает пользователя по email (email хранится в нижнем регистре).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET password_hash = $1
		      WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetResetToken сохраняет хэш токена сброса пароля и срок его действия.
func (s *Storage) SetResetToken(ctx context.Context, userUID, tokenHash string, expiry time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET reset_token_hash = $1,
			      reset_token_expiry = $2
		      WHERE uid = $3`
	if _, err := s.DB.ExecContext(ctx, query, tokenHash, expiry, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearResetToken очищает поля токена сброса пароля.
func (s *Storage) ClearResetToken(ctx context.Context, userUID string) error {
	const op = "storage.ClearResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET reset_token_hash = NULL,
			      reset_token_expiry = NULL
		      WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindUserByResetToken ищет пользователя по хэшу токена сброса,
// у которого срок действия токена ещё не истёк.
func (s *Storage) FindUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	const op = "storage.FindUserByResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE reset_token_hash = $1
			    AND reset_token_expiry > now()`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ResetPassword заменяет хэш пароля и очищает поля токена сброса
// одним запросом.
func (s *Storage) ResetPassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.ResetPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET password_hash = $1,
			      reset_token_hash = NULL,
			      reset_token_expiry = NULL
		      WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateFullName обновляет имя пользователя.
func (s *Storage) UpdateFullName(ctx context.Context, userUID, fullName string) error {
	const op = "storage.UpdateFullName"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET full_name = $1
		      WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, fullName, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateAvatar обновляет пару идентификаторов аватара на медиа-хостинге.
func (s *Storage) UpdateAvatar(ctx context.Context, userUID string, avatar models.Avatar) error {
	const op = "storage.UpdateAvatar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET avatar_public_id = $1,
			      avatar_secure_url = $2
		      WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, avatar.PublicID, avatar.SecureURL, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateSubscription сохраняет привязку пользователя к подписке
// платёжного провайдера.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID, subscriptionID, status string) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_id = NULLIF($1, ''),
			      subscription_status = NULLIF($2, '')
		      WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, subscriptionID, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateSubscriptionStatus обновляет только статус подписки, id не трогает.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_status = NULLIF($1, '')
		      WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetUserBySubscriptionID возвращает пользователя, которому принадлежит
// подписка провайдера. Используется при обработке webhook.
func (s *Storage) GetUserBySubscriptionID(ctx context.Context, subscriptionID string) (*models.User, error) {
	const op = "storage.GetUserBySubscriptionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE subscription_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
