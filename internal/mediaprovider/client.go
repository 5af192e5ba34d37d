// Package mediaprovider реализует HTTP-клиент медиа-хостинга:
// загрузка файлов (аватары, обложки курсов, видео лекций) и удаление
// по идентификатору.
package mediaprovider

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lms-platform/internal/config"
)

// Client клиент API медиа-хостинга.
type Client struct {
	cfg        config.Media
	httpClient *http.Client
}

// NewClient создаёт новый клиент медиа-хостинга.
func NewClient(cfg config.Media) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// sign подписывает параметры запроса: отсортированные пары key=value
// конкатенируются через '&', к строке добавляется секрет, берётся SHA-1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.MediaAPISecret))
	return hex.EncodeToString(sum[:])
}

// Upload загружает локальный файл на медиа-хостинг и возвращает
// пару (public_id, secure_url). Локальный файл после успешной
// загрузки удаляется.
func (c *Client) Upload(ctx context.Context, filePath string) (*UploadResult, error) {
	const op = "mediaprovider.Upload"

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = file.Close()
	}()

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	publicID := c.cfg.MediaFolder + "/" + uuid.New().String()
	params := map[string]string{
		"folder":    c.cfg.MediaFolder,
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := mw.WriteField("api_key", c.cfg.MediaAPIKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url := c.cfg.MediaAPIURL + "/" + c.cfg.MediaCloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if result.PublicID == "" || result.SecureURL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("empty upload result"))
	}

	_ = os.Remove(filePath)

	return &result, nil
}

// Destroy удаляет файл с медиа-хостинга по его public_id.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	const op = "mediaprovider.Destroy"

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
		"api_key":   c.cfg.MediaAPIKey,
		"signature": c.sign(params),
	}
	body, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	url := c.cfg.MediaAPIURL + "/" + c.cfg.MediaCloudName + "/image/destroy"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}
