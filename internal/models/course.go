// Package models содержит доменные структуры курса и лекций,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Course представляет курс каталога. Лекции хранятся вложенным
// списком, как в документной модели, NumberOfLectures поддерживается
// равным длине списка.
type Course struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	CreatedBy        string    `json:"created_by"`
	Thumbnail        Media     `json:"thumbnail"`
	Lectures         []Lecture `json:"lectures,omitempty"`
	NumberOfLectures int       `json:"number_of_lectures"`
	CreatedAt        time.Time `json:"created_at"`
}

// Lecture представляет одну лекцию курса.
type Lecture struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Media       Media  `json:"lecture"`
}

// Media хранит пару идентификаторов файла на медиа-хостинге.
type Media struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// DummyCourse используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Course.
type DummyCourse struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=8"`
	Category    string `json:"category" validate:"required"`
	CreatedBy   string `json:"created_by" validate:"required"`
}

// DummyLecture используется для приёма данных лекции из JSON-запроса.
type DummyLecture struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}
