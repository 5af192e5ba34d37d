// Package formfile сохраняет файлы из multipart-форм во временный
// каталог перед загрузкой на медиа-хостинг.
package formfile

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Максимальный размер multipart-формы в памяти.
const maxMemory = 32 << 20

// IsMultipart сообщает, пришёл ли запрос как multipart/form-data.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Save сохраняет файл из поля field в каталог dir и возвращает путь
// до сохранённого файла. Если файл в форме отсутствует, возвращает
// пустую строку без ошибки.
func Save(r *http.Request, field, dir string) (string, error) {
	const op = "formfile.Save"

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path, nil
}
