package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// CreateCourse добавляет новый курс без лекций и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO courses (title, description, category, created_by,
			      thumbnail_public_id, thumbnail_secure_url, lectures)
			  VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Category, course.CreatedBy,
		course.Thumbnail.PublicID, course.Thumbnail.SecureURL).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCourses возвращает каталог курсов без лекций.
func (s *Storage) ListCourses(ctx context.Context) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, created_by,
			      thumbnail_public_id, thumbnail_secure_url,
			      jsonb_array_length(lectures), created_at
			  FROM courses
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Course
	for rows.Next() {
		var c models.Course
		if err = rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category,
			&c.CreatedBy, &c.Thumbnail.PublicID, &c.Thumbnail.SecureURL,
			&c.NumberOfLectures, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCourse возвращает курс по ID вместе с лекциями.
func (s *Storage) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, created_by,
			      thumbnail_public_id, thumbnail_secure_url, lectures,
			      jsonb_array_length(lectures), created_at
			  FROM courses
			  WHERE id = $1`
	var c models.Course
	var lecturesRaw []byte
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title,
		&c.Description, &c.Category, &c.CreatedBy, &c.Thumbnail.PublicID,
		&c.Thumbnail.SecureURL, &lecturesRaw, &c.NumberOfLectures,
		&c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(lecturesRaw, &c.Lectures); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// UpdateCourse частично обновляет поля курса. Пустые значения в dummy
// оставляют прежние значения колонок.
func (s *Storage) UpdateCourse(ctx context.Context, id int, dummy models.DummyCourse) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
		      SET title = COALESCE(NULLIF($1, ''), title),
			      description = COALESCE(NULLIF($2, ''), description),
			      category = COALESCE(NULLIF($3, ''), category),
			      created_by = COALESCE(NULLIF($4, ''), created_by)
		      WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query, dummy.Title, dummy.Description,
		dummy.Category, dummy.CreatedBy, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// UpdateThumbnail обновляет пару идентификаторов обложки курса.
func (s *Storage) UpdateThumbnail(ctx context.Context, id int, thumbnail models.Media) error {
	const op = "storage.UpdateThumbnail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
		      SET thumbnail_public_id = $1,
			      thumbnail_secure_url = $2
		      WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, thumbnail.PublicID, thumbnail.SecureURL, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveCourse удаляет курс по ID и возвращает количество удалённых записей.
func (s *Storage) RemoveCourse(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses
		      WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// AddLecture добавляет лекцию в конец списка лекций курса и возвращает
// новое количество лекций.
func (s *Storage) AddLecture(ctx context.Context, courseID int, lecture models.Lecture) (int, error) {
	const op = "storage.AddLecture"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := json.Marshal(lecture)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	query := `UPDATE courses
		      SET lectures = lectures || $1::jsonb,
			      number_of_lectures = jsonb_array_length(lectures || $1::jsonb)
		      WHERE id = $2
		      RETURNING number_of_lectures;`
	if err := s.DB.QueryRowContext(ctx, query, raw, courseID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemoveLecture удаляет лекцию курса по её индексу и возвращает
// новое количество лекций.
func (s *Storage) RemoveLecture(ctx context.Context, courseID, index int) (int, error) {
	const op = "storage.RemoveLecture"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `UPDATE courses
		      SET lectures = lectures - $1,
			      number_of_lectures = jsonb_array_length(lectures - $1)
		      WHERE id = $2
			    AND jsonb_array_length(lectures) > $1
		      RETURNING number_of_lectures;`
	if err := s.DB.QueryRowContext(ctx, query, index, courseID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
