package mediaprovider

// UploadResult ответ медиа-хостинга на загрузку файла.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}
